package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/asklens-labs/asklens/internal/backend"
	"github.com/asklens-labs/asklens/internal/cli/output"
	"github.com/asklens-labs/asklens/internal/describe"
	"github.com/asklens-labs/asklens/internal/location"
	"github.com/asklens-labs/asklens/internal/schema"
	"github.com/asklens-labs/asklens/internal/state"
	"github.com/spf13/cobra"
)

// NewAskCommand creates the ask command.
func NewAskCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a one-shot question about the data",
		Long: `Submit a natural-language question to the backend and print the
result: the dataset, the generated insight text, and the About Data
summary (time period, attributes, measures, filters).`,
		Example: `  # Ask about service requests
  asklens ask "noise complaints by borough in 2024"

  # JSON output for scripting
  asklens ask -o json "top 10 complaint types"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, strings.Join(args, " "))
		},
	}
	return cmd
}

func runAsk(cmd *cobra.Command, prompt string) error {
	ctx := cmd.Context()
	cfg := getConfig(ctx)
	logger := getLogger(ctx)

	schemas := schema.NewStore(cfg.SchemaURL, logger)
	if cfg.SchemaFile != "" {
		if err := loadSchemaFile(schemas, cfg.SchemaFile); err != nil {
			logger.Warn("ignoring schema override", "file", cfg.SchemaFile, "error", err)
		}
	}
	client := backend.NewClient(cfg.BackendURL, cfg.RequestTimeout, logger)
	store := state.NewStore()
	store.SetHistoryLimit(cfg.HistoryLimit)

	// The CLI has no device geolocation; a configured fixed position
	// stands in when the preference is enabled.
	var provider location.Provider
	if cfg.Location.Enabled {
		provider = location.Static{Point: backend.Point{
			Latitude:  cfg.Location.Latitude,
			Longitude: cfg.Location.Longitude,
		}}
	}
	loc, err := location.Acquire(ctx, provider)
	if err != nil {
		logger.Debug("proceeding without location", "error", err)
	}

	snap := store.Snapshot()
	qctx := backend.QueryContext{
		CurrentVisualization: backend.Visualization{
			ChartType:  snap.ChartType,
			Dimensions: snap.Aggregation.Dimensions,
			Measures:   snap.Aggregation.Measures,
		},
		ConversationHistory: store.History(),
		LocationEnabled:     cfg.Location.Enabled,
	}

	resp, err := client.Ask(ctx, prompt, qctx, loc)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	store.Update(resp.Result)
	store.AppendTurn(prompt, resp.Result.TextResponse)
	result := store.Snapshot()

	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
	if r.Mode() == output.ModeJSON {
		enc := json.NewEncoder(r.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	renderResult(r, result)
	r.Println()

	doc := schemas.Load(ctx)
	sections := describe.Build(result, doc)
	return describe.RenderAll(&terminalRenderer{r: r}, sections)
}
