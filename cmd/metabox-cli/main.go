package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-metabox/pkg/logger"
	"github.com/goliatone/go-metabox/pkg/metabox"
	"github.com/goliatone/go-metabox/pkg/orchestrator"
	"github.com/goliatone/go-metabox/pkg/render"
	"github.com/goliatone/go-metabox/pkg/renderers/tui"
	"github.com/goliatone/go-metabox/pkg/renderers/vanilla"
	"github.com/goliatone/go-metabox/pkg/sidebars"
	"github.com/goliatone/go-metabox/pkg/validation"
)

var errInvalidSubmission = errors.New("submission has issues")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "metabox-cli: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	boxesDir    string
	sidebarsDir string
	boxID       string
	renderer    string
	output      string
	preset      string
	values      string
	nonce       string
	submit      string
	tuiFormat   string
	logLevel    string
	logJSON     bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	flags := flag.NewFlagSet("metabox-cli", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&opts.boxesDir, "boxes", "examples/boxes", "directory holding meta box definitions")
	flags.StringVar(&opts.sidebarsDir, "sidebars", "examples/sidebars", "directory holding sidebar definitions")
	flags.StringVar(&opts.boxID, "box", "", "box id to render (first box when empty)")
	flags.StringVar(&opts.renderer, "renderer", "vanilla", "renderer to use (json, vanilla, tui)")
	flags.StringVar(&opts.output, "output", "", "output file (stdout if empty)")
	flags.StringVar(&opts.preset, "preset", "", "JSON preset applied to the box before normalizing")
	flags.StringVar(&opts.values, "values", "", `JSON object of prefilled values, e.g. {"area":"footer"}`)
	flags.StringVar(&opts.nonce, "nonce", "", "nonce token emitted as a hidden input")
	flags.StringVar(&opts.submit, "submit", "", "URL-encoded form values to validate instead of rendering")
	flags.StringVar(&opts.tuiFormat, "tui-format", string(tui.OutputFormatJSON), "tui output format (json, form, pretty)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error, disabled)")
	flags.BoolVar(&opts.logJSON, "log-json", false, "emit logs as JSON")
	if err := flags.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = logger.ParseLevel(opts.logLevel)
	logCfg.JSON = opts.logJSON
	logCfg.Output = stderr
	log := logger.New(logCfg)

	sidebarReg, err := loadSidebars(opts.sidebarsDir, log)
	if err != nil {
		return err
	}
	store, err := metabox.LoadFS(dirFS(opts.boxesDir))
	if err != nil {
		return err
	}
	log.Debug("definitions loaded", "boxes", len(store.IDs()), "sidebars", len(sidebarReg.Sidebars()))

	boxID := opts.boxID
	if boxID == "" {
		boxes := store.Boxes()
		if len(boxes) == 0 {
			return fmt.Errorf("no boxes found in %q", opts.boxesDir)
		}
		boxID = boxes[0].ID
	}

	registry, err := buildRenderers(opts)
	if err != nil {
		return err
	}

	orchOptions := []orchestrator.Option{
		orchestrator.WithStore(store),
		orchestrator.WithSidebars(sidebarReg.Source()),
		orchestrator.WithRegistry(registry),
		orchestrator.WithLogger(log),
	}
	if opts.preset != "" {
		preset, err := orchestrator.NewJSONPresetTransformerFromFS(os.DirFS(filepath.Dir(opts.preset)), filepath.Base(opts.preset))
		if err != nil {
			return err
		}
		orchOptions = append(orchOptions, orchestrator.WithTransformer(preset))
	}

	var values map[string]any
	if opts.values != "" {
		if err := json.Unmarshal([]byte(opts.values), &values); err != nil {
			return fmt.Errorf("parse -values: %w", err)
		}
	}

	renderOptions := render.RenderOptions{Values: values}
	if opts.nonce != "" {
		renderOptions.Hidden = render.MergeHiddenFields(nil, render.Nonce(boxID, opts.nonce))
	}

	gen := orchestrator.New(orchOptions...)
	if opts.submit != "" {
		return validateSubmission(ctx, gen, boxID, opts.submit, stdout, log)
	}
	out, err := gen.Generate(ctx, orchestrator.Request{
		BoxID:         boxID,
		Renderer:      opts.renderer,
		RenderOptions: renderOptions,
	})
	if err != nil {
		return fmt.Errorf("generate %s: %w", boxID, err)
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, out, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		log.Info("box written", "box", boxID, "renderer", opts.renderer, "path", opts.output)
		return nil
	}
	_, err = fmt.Fprintln(stdout, string(out))
	return err
}

func validateSubmission(ctx context.Context, gen *orchestrator.Orchestrator, boxID, raw string, stdout io.Writer, log logger.Logger) error {
	form, err := url.ParseQuery(raw)
	if err != nil {
		return fmt.Errorf("parse -submit: %w", err)
	}
	box, err := gen.Normalize(ctx, orchestrator.Request{BoxID: boxID})
	if err != nil {
		return fmt.Errorf("normalize %s: %w", boxID, err)
	}
	result := validation.Submission(box, form)
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(stdout, string(out)); err != nil {
		return err
	}
	if !result.Valid {
		log.Warn("submission rejected", "box", boxID, "issues", len(result.Issues))
		return errInvalidSubmission
	}
	return nil
}

func loadSidebars(dir string, log logger.Logger) (*sidebars.Registry, error) {
	reg, err := sidebars.New(sidebars.WithLogger(log))
	if err != nil {
		return nil, err
	}
	defs, err := sidebars.LoadFS(dirFS(dir))
	if err != nil {
		return nil, err
	}
	reg.RegisterAll(defs)
	return reg, nil
}

func buildRenderers(opts options) (*render.Registry, error) {
	registry := render.NewRegistry()
	registry.MustRegister(render.JSON{})

	html, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	registry.MustRegister(html)

	prompts, err := tui.New(tui.WithOutputFormat(tui.OutputFormat(opts.tuiFormat)))
	if err != nil {
		return nil, err
	}
	registry.MustRegister(prompts)
	return registry, nil
}

// dirFS returns nil for an empty or missing directory so loaders treat it as
// holding no definitions.
func dirFS(dir string) fs.FS {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil
	}
	return os.DirFS(dir)
}
