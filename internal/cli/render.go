package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaidflow/pkg/cache"
	"github.com/matzehuels/mermaidflow/pkg/diagram"
	"github.com/matzehuels/mermaidflow/pkg/engine"
	"github.com/matzehuels/mermaidflow/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	typ      string
	output   string
	format   string
	scale    float64
	noCache  bool
	cacheDir string
}

// newRenderCmd creates the render command. Rendered artifacts are
// cached on disk keyed by source text and render parameters, so
// re-rendering an unchanged diagram is instant.
func newRenderCmd() *cobra.Command {
	opts := renderOpts{format: "svg", scale: 2.0}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a diagram as SVG, PNG, or PDF",
		Long: `Parse a mermaid diagram and render it as an image.

The output format is inferred from the output file extension, or set
explicitly with --format when writing to stdout.

Examples:
  mermaidflow render diagram.mmd -o diagram.svg
  mermaidflow render diagram.mmd -o diagram.png --scale 3
  cat diagram.mmd | mermaidflow render --format svg > out.svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runRender(c, path, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.typ, "type", "t", "", "diagram type (auto-detected if empty)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, png, or pdf")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", "", "artifact cache directory")

	return cmd
}

func runRender(c *cobra.Command, path string, opts renderOpts) error {
	ctx := c.Context()
	logger := loggerFromContext(ctx)

	text, name, err := readSource(path)
	if err != nil {
		return err
	}
	typ, err := resolveType(opts.typ)
	if err != nil {
		return err
	}

	// The extension wins when the format flag was left at its default.
	format := opts.format
	if ext := strings.TrimPrefix(filepath.Ext(opts.output), "."); ext != "" && !c.Flags().Changed("format") {
		format = ext
	}
	f, err := render.ParseFormat(format)
	if err != nil {
		return err
	}

	artifacts, err := openArtifactCache(opts)
	if err != nil {
		return err
	}
	defer artifacts.Close()

	key := cache.RenderKey(text+"\x00"+string(typ), string(f), opts.scale)
	cached := false
	data, ok, err := artifacts.Get(ctx, key)
	if err != nil {
		logger.Warnf("cache read failed: %v", err)
	}
	if ok {
		cached = true
	} else {
		prog := newProgress(logger)
		doc, err := engine.Default().Parse(ctx, diagram.Source{Text: text, Type: typ})
		if err != nil {
			return err
		}
		data, err = render.Document(ctx, doc, f, render.WithScale(opts.scale))
		if err != nil {
			return err
		}
		prog.done(fmt.Sprintf("Rendered %s as %s", name, f))

		if err := artifacts.Set(ctx, key, data, 7*24*time.Hour); err != nil {
			logger.Warnf("cache write failed: %v", err)
		}
	}

	if err := writeOutput(opts.output, data); err != nil {
		return err
	}
	if opts.output != "" {
		printSuccess("Rendered %s", name)
		printFile(opts.output)
		printStats(0, 0, cached)
	}
	return nil
}

// openArtifactCache returns the file cache for rendered artifacts, or
// a null cache when --no-cache is set.
func openArtifactCache(opts renderOpts) (cache.Cache, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil
	}
	dir := opts.cacheDir
	if dir == "" {
		var err error
		dir, err = artifactCacheDir()
		if err != nil {
			return nil, err
		}
	}
	return cache.NewFileCache(dir)
}

// artifactCacheDir returns the default cache directory,
// ~/.cache/mermaidflow (or the platform equivalent).
func artifactCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("get cache dir: %w", err)
	}
	return filepath.Join(base, "mermaidflow"), nil
}
