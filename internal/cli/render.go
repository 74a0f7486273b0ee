package cli

import (
	"fmt"
	"html/template"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-patternatlas/internal/assets"
	"github.com/goliatone/go-patternatlas/internal/generator"
	"github.com/goliatone/go-patternatlas/internal/logging"
	"github.com/goliatone/go-patternatlas/internal/logging/gologger"
	"github.com/goliatone/go-patternatlas/internal/markdown"
	"github.com/goliatone/go-patternatlas/internal/templates"
	"github.com/goliatone/go-patternatlas/internal/textutil"
	"github.com/goliatone/go-patternatlas/pkg/atlas"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	ContentPath string
	OutputDir   string
	Branded     bool
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the full static site",
		Long: `Render every page of the atlas into the output directory.

The output directory must already exist. External images referenced from
pattern content are downloaded once, stored under their content hash in
assets/, and reused on later runs via assets/asset_map.json.

Example:
  patternatlas render --content atlas.json --output ./public
  patternatlas render --content atlas.json --output ./public --branded`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.ContentPath, "content", "", "path to the content tree JSON export (required)")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "", "output directory, must exist (required)")
	cmd.Flags().BoolVar(&opts.Branded, "branded", false, "render the branded site variant")
	_ = cmd.MarkFlagRequired("content")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runRender(cmd *cobra.Command, opts *RenderOptions) error {
	provider, err := gologger.NewProvider(gologger.Config{
		Level:  opts.LogLevel,
		Format: opts.LogFormat,
	})
	if err != nil {
		return err
	}
	logger := logging.ModuleLogger(provider, "")

	content, err := atlas.LoadFile(opts.ContentPath)
	if err != nil {
		return err
	}

	store, err := assets.New(opts.OutputDir, assets.WithLogger(provider))
	if err != nil {
		return err
	}

	md := markdown.New(store)
	engine, err := templates.New(templates.Helpers{
		Markdown: func(s string) (template.HTML, error) {
			out, renderErr := md.Render(s)
			return template.HTML(out), renderErr
		},
		Resource:       store.Resolve,
		SplitCamelCase: textutil.SplitCamelCase,
	})
	if err != nil {
		return err
	}

	svc := generator.NewService(generator.Config{
		OutputDir: opts.OutputDir,
		Branded:   opts.Branded,
	}, generator.Dependencies{
		Renderer: engine,
		Assets:   store,
		Logger:   provider,
	})

	result, err := svc.Build(cmd.Context(), content)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	logger.Info("site rendered",
		"pages", result.PagesBuilt,
		"fonts_fetched", result.FontsFetched,
		"fonts_failed", result.FontsFailed,
		"output", opts.OutputDir,
	)
	return nil
}
