// Command wafermap renders a wafer map from a JSON or HCL document,
// optionally coloring dies from a table of measurements.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"wafermap/internal/config"
	"wafermap/internal/measure"
	"wafermap/internal/render"
	"wafermap/internal/render/cvrender"
	"wafermap/internal/render/ggrender"
	"wafermap/internal/version"
	"wafermap/internal/wafer"
)

// ExitError carries a process exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	configPath  string
	outPath     string
	writeConfig string
	backend     string
	width       int
	dbDriver    string
	dbDSN       string
	dbTable     string
	colorBy     string
	cmap        string
	label       string
	labels      bool
	logLevel    string
	logFormat   string
	version     bool
}

func parse(args []string, out io.Writer) (*options, bool, error) {
	fs := flag.NewFlagSet("wafermap", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprint(out, `
wafermap - render wafer maps.

Usage:
  wafermap [options] [CONFIG]

Arguments:
  CONFIG
    Path to a .json or .hcl document. The reference wafer is drawn when omitted.

Options:
`)
		fs.PrintDefaults()
	}

	var o options
	fs.StringVar(&o.configPath, "config", "", "Path to the wafer document (.json or .hcl).")
	fs.StringVar(&o.outPath, "out", "", "Output image path (.png, .jpg or .tif). Overrides the document.")
	fs.StringVar(&o.writeConfig, "write-config", "", "Write the effective document as JSON to this path.")
	fs.StringVar(&o.backend, "backend", "", "Renderer: 'gg' or 'opencv'.")
	fs.IntVar(&o.width, "width", 0, "Output width in pixels.")
	fs.StringVar(&o.dbDriver, "db-driver", "", "Measurement database driver: 'sqlite' or 'pgx'.")
	fs.StringVar(&o.dbDSN, "db-dsn", "", "Measurement database DSN.")
	fs.StringVar(&o.dbTable, "db-table", "", "Measurement table name.")
	fs.StringVar(&o.colorBy, "color-by", "", "Fill dies from this numeric attribute.")
	fs.StringVar(&o.cmap, "cmap", "", "Colormap for -color-by: RdYlGn, viridis or Greys.")
	fs.StringVar(&o.label, "label", "", "Label dies with this attribute.")
	fs.BoolVar(&o.labels, "labels", false, "Label dies with their coordinates.")
	fs.StringVar(&o.logLevel, "log-level", "info", "Logging level: 'debug', 'info', 'warn' or 'error'.")
	fs.StringVar(&o.logFormat, "log-format", "text", "Log output format: 'text' or 'json'.")
	fs.BoolVar(&o.version, "version", false, "Print the version and exit.")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if o.configPath == "" && fs.NArg() > 0 {
		o.configPath = fs.Arg(0)
	}

	o.logFormat = strings.ToLower(o.logFormat)
	if o.logFormat != "text" && o.logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	o.logLevel = strings.ToLower(o.logLevel)
	switch o.logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	return &o, false, nil
}

func run(out io.Writer, args []string) error {
	o, shouldExit, err := parse(args, out)
	if err != nil || shouldExit {
		return err
	}
	if o.version {
		fmt.Fprintln(out, version.String())
		return nil
	}

	logger := newLogger(os.Stderr, o.logFormat, o.logLevel)
	slog.SetDefault(logger)
	render.SetLogger(logger)
	measure.SetLogger(logger)
	defer func() {
		render.SetLogger(nil)
		measure.SetLogger(nil)
	}()

	doc := config.Default()
	if o.configPath != "" {
		if doc, err = config.Load(o.configPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "Loaded %s\n", o.configPath)
	}
	applyFlags(doc, o)
	if err := doc.Validate(); err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	if o.writeConfig != "" {
		if err := doc.Save(o.writeConfig); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		fmt.Fprintf(out, "Wrote %s\n", o.writeConfig)
	}

	m, err := doc.BuildMap()
	if err != nil {
		return err
	}
	l := m.Lattice()
	fmt.Fprintf(out, "Lattice: x [%d, %d] y [%d, %d], %d dies, %d in wafer\n",
		l.X.Min, l.X.Max, l.Y.Min, l.Y.Max, m.Len(), len(m.Members()))

	if doc.Measurements.Driver != "" {
		if err := importMeasurements(out, doc.Measurements, m); err != nil {
			return err
		}
	}

	if err := doc.ApplyColoring(m); err != nil {
		return err
	}
	if name := doc.Coloring.Attribute; name != "" {
		if s, err := m.Stats(name); err == nil {
			fmt.Fprintf(out, "%s: n=%d min=%.4g max=%.4g mean=%.4g std=%.4g\n",
				name, s.Count, s.Min, s.Max, s.Mean, s.StdDev)
		}
	}

	ol, err := doc.BuildOutline()
	if err != nil {
		return err
	}
	scene, err := render.Plot(m, doc.RenderOptions(ol))
	if err != nil {
		return err
	}
	for _, w := range scene.Warnings {
		fmt.Fprintf(out, "Warning: %s\n", w)
	}

	if err := save(scene, doc.Output); err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved %s (%s, %dpx)\n", doc.Output.Path, doc.Output.Backend, doc.Output.Width)
	return nil
}

func applyFlags(doc *config.Document, o *options) {
	if o.outPath != "" {
		doc.Output.Path = o.outPath
	}
	if o.backend != "" {
		doc.Output.Backend = o.backend
	}
	if o.width > 0 {
		doc.Output.Width = o.width
	}
	if o.dbDriver != "" {
		doc.Measurements.Driver = o.dbDriver
	}
	if o.dbDSN != "" {
		doc.Measurements.DSN = o.dbDSN
	}
	if o.dbTable != "" {
		doc.Measurements.Table = o.dbTable
	}
	if o.colorBy != "" {
		doc.Coloring.Attribute = o.colorBy
	}
	if o.cmap != "" {
		doc.Coloring.Colormap = o.cmap
	}
	if o.label != "" {
		doc.Labels.Column = o.label
	}
	if o.labels {
		doc.Labels.Enabled = true
	}
	if doc.Output.Backend == "" {
		doc.Output.Backend = "gg"
	}
	if doc.Output.Width == 0 {
		doc.Output.Width = 800
	}
	if doc.Output.Path == "" {
		doc.Output.Path = "wafer.png"
	}
}

func importMeasurements(out io.Writer, src config.Measurements, m *wafer.Map) error {
	ctx := context.Background()
	store, err := measure.Open(ctx, src.Driver, src.DSN, src.Table)
	if err != nil {
		return err
	}
	defer store.Close()

	res, err := store.Load(ctx, m)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Imported %d of %d rows from %s (%d skipped)\n", res.Applied, res.Rows, store.Table(), res.Skipped)
	return nil
}

func save(scene render.Scene, o config.Output) error {
	switch o.Backend {
	case "opencv":
		c, err := cvrender.Render(scene, o.Width, "white")
		if err != nil {
			return err
		}
		defer c.Close()
		return c.Save(o.Path)
	default:
		c, err := ggrender.Render(scene, o.Width, ggrender.DefaultOptions())
		if err != nil {
			return err
		}
		defer c.Close()
		return c.Save(o.Path)
	}
}

func newLogger(w io.Writer, format, level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
