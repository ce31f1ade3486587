package commands

import (
	"encoding/json"
	"os"

	"github.com/asklens-labs/asklens/internal/cli/output"
	"github.com/asklens-labs/asklens/internal/describe"
	"github.com/asklens-labs/asklens/internal/schema"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Show the field catalog",
		Long: `Fetch the schema document and list every known dimension and
measure with its display name, data type, and description.`,
		RunE: runSchema,
	}
}

func runSchema(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := getConfig(ctx)
	logger := getLogger(ctx)

	schemas := schema.NewStore(cfg.SchemaURL, logger)
	if cfg.SchemaFile != "" {
		if err := loadSchemaFile(schemas, cfg.SchemaFile); err != nil {
			logger.Warn("ignoring schema override", "file", cfg.SchemaFile, "error", err)
		}
	}
	doc := schemas.Load(ctx)

	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
	if r.Mode() == output.ModeJSON {
		enc := json.NewEncoder(r.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	if doc.FieldCount() == 0 {
		r.Println(r.Styles().Muted.Render("Schema is empty or unavailable."))
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Kind", "Field", "Display Name", "Type", "Icon", "Description"})

	appendFields := func(kind string, fields []schema.Field, measure bool) {
		for _, f := range fields {
			icon := describe.DimensionIcon(f.DataType)
			if measure {
				icon = describe.MeasureIcon(f.DataType)
			}
			t.AppendRow(table.Row{kind, f.PhysicalName, f.DisplayName, f.DataType, icon, f.Description})
		}
	}
	appendFields("time", doc.Dimensions.Time, false)
	appendFields("geo", doc.Dimensions.Geo, false)
	appendFields("categorical", doc.Dimensions.Categorical, false)
	appendFields("measure", doc.Measures, true)

	t.Render()
	r.Printf("%d fields\n", doc.FieldCount())
	return nil
}

// loadSchemaFile replaces the store's document with a local override.
func loadSchemaFile(schemas *schema.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc, err := schema.Parse(data)
	if err != nil {
		return err
	}
	schemas.Replace(doc)
	return nil
}
