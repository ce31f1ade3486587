package ui

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/asklens-labs/asklens/internal/backend"
	"github.com/asklens-labs/asklens/internal/schema"
	"github.com/asklens-labs/asklens/internal/state"
	"github.com/asklens-labs/asklens/internal/ui/notifier"
	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"
)

// Server is the panel server.
type Server struct {
	store        *state.Store
	schemas      *schema.Store
	client       *backend.Client
	sessionStore *sessions.CookieStore
	notifier     *notifier.Notifier
	logger       *slog.Logger
	port         int
	schemaFile   string
	watch        bool
}

// Config holds configuration for the panel server.
type Config struct {
	Store         *state.Store
	Schemas       *schema.Store
	Client        *backend.Client
	Port          int
	SessionSecret string
	SchemaFile    string
	Watch         bool
	Logger        *slog.Logger
}

// NewServer creates a panel server instance.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 365) // the location preference survives across sessions
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		store:        cfg.Store,
		schemas:      cfg.Schemas,
		client:       cfg.Client,
		sessionStore: sessionStore,
		notifier:     notifier.New(),
		logger:       logger,
		port:         cfg.Port,
		schemaFile:   cfg.SchemaFile,
		watch:        cfg.Watch,
	}
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// Serve starts the panel server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting panel server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	h := NewHandlers(s.store, s.schemas, s.client, s.sessionStore, s.notifier, s.logger)
	r.Get("/", h.Index)
	r.Get("/panel", h.Panel)
	r.Get("/updates", h.Updates)
	r.Post("/query", h.Query)
	r.Post("/preferences/location", h.LocationPreference)
	r.Get("/ask", h.SetInitialQuery)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	// A local schema override takes precedence over the remote document.
	if s.schemaFile != "" {
		if _, err := os.Stat(s.schemaFile); err == nil {
			s.reloadSchemaFile()
		}
	}

	// Watch the local schema override file if enabled
	if s.watch && s.schemaFile != "" {
		eg.Go(func() error {
			return s.watchSchemaFile(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down panel server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// watchSchemaFile reloads the schema override and re-renders connected
// clients whenever the file changes.
func (s *Server) watchSchemaFile(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory; editors replace files rather than write in place.
	if err := watcher.Add(filepath.Dir(s.schemaFile)); err != nil {
		s.logger.Error("failed to watch schema file", "file", s.schemaFile, "error", err)
		return nil
	}

	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.schemaFile) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				s.reloadSchemaFile()
			})

		case err := <-watcher.Errors:
			s.logger.Error("watcher error", "error", err)
		}
	}
}

func (s *Server) reloadSchemaFile() {
	data, err := os.ReadFile(s.schemaFile)
	if err != nil {
		s.logger.Error("failed to read schema file", "file", s.schemaFile, "error", err)
		return
	}
	doc, err := schema.Parse(data)
	if err != nil {
		s.logger.Error("failed to parse schema file", "file", s.schemaFile, "error", err)
		return
	}

	s.schemas.Replace(doc)
	s.logger.Debug("schema reloaded", "file", s.schemaFile, "fields", doc.FieldCount())
	s.notifier.Broadcast()
}
