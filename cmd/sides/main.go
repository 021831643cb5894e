package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/sides/codegen/cgen"
	"github.com/wippyai/sides/codegen/witgen"
	"github.com/wippyai/sides/config"
	"github.com/wippyai/sides/consumer"
	serrors "github.com/wippyai/sides/errors"
	"github.com/wippyai/sides/guest"
	"github.com/wippyai/sides/idl"
	"github.com/wippyai/sides/provider"
	"github.com/wippyai/sides/thing"
	"github.com/wippyai/sides/tracing"
)

const usage = `Usage:
  sides run [--number N] [--label L] [--guest=false] [--log-report] [-i]
  sides gen <file.sides> <outdir> [--wit]
`

var errUsage = errors.New("invalid usage")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) && !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errUsage
	}

	switch args[0] {
	case "run":
		return runCommand(ctx, args[1:], stdout, stderr)
	case "gen":
		return genCommand(args[1:], stdout, stderr)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return errUsage
	}
}

func setLoggers(log *zap.Logger) {
	provider.SetLogger(log)
	consumer.SetLogger(log)
	guest.SetLogger(log)
	cgen.SetLogger(log)
	witgen.SetLogger(log)
}

func runCommand(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	number := fs.Int32("number", 0, "constant returned by every object (default: count of objects created)")
	label := fs.String("label", "", "prefix for the reported number (overrides SIDES_LABEL)")
	useGuest := fs.Bool("guest", true, "hand objects to the WebAssembly guest instead of a logging sink")
	interactive := fs.BoolP("interactive", "i", false, "interactive mode with TUI")
	logReport := fs.Bool("log-report", false, "report the number through the logger instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if fs.Changed("label") {
		cfg.Label = *label
	}

	log, err := cfg.Logger()
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	setLoggers(log)

	shutdown, err := tracing.Setup(ctx, cfg.OTELEndpoint, "sides",
		tracing.WithSampleRatio(cfg.SampleRatio))
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			log.Warn("trace shutdown", zap.Error(err))
		}
	}()

	if *interactive {
		if f, ok := stdout.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
			return fmt.Errorf("interactive mode needs a terminal")
		}
		return runInteractive(ctx, cfg, log, *useGuest)
	}

	var reporter consumer.Reporter = consumer.NewWriterReporter(stdout, cfg.Label)
	if *logReport {
		reporter = consumer.NewLogReporter(log.With(zap.String("label", cfg.Label)))
	}
	s, err := newSession(ctx, cfg, log, sessionOptions{
		reporter: reporter,
		useGuest: *useGuest,
	})
	if err != nil {
		return err
	}
	defer func() { _ = s.Close(ctx) }()

	var ctor provider.Constructor
	if fs.Changed("number") {
		n := thing.Const(*number)
		ctor = func() thing.Thing { return n }
	} else {
		ctor = newInstances().New
	}

	runErr := s.runOnce(ctx, ctor)
	if cfg.Metrics {
		if err := s.writeMetrics(stdout); err != nil {
			log.Warn("write metrics", zap.Error(err))
		}
	}
	return runErr
}

func genCommand(args []string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("gen", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	withWIT := fs.Bool("wit", false, "also write a WIT document")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fmt.Fprint(stderr, usage)
		return errUsage
	}
	src, outDir := fs.Arg(0), fs.Arg(1)

	data, err := os.ReadFile(src)
	if err != nil {
		return serrors.Wrap(serrors.PhaseGenerate, serrors.KindIO, err, "read "+src)
	}
	f, err := idl.Parse(string(data))
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}

	headers, err := cgen.Generate(f)
	if err != nil {
		return err
	}
	files := make(map[string]string, len(headers)+1)
	order := make([]string, 0, len(headers)+1)
	for _, h := range headers {
		files[h.Name] = h.Content
		order = append(order, h.Name)
	}
	if *withWIT {
		doc, err := witgen.Generate(f)
		if err != nil {
			return err
		}
		files[doc.Name] = doc.Content
		order = append(order, doc.Name)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return serrors.Wrap(serrors.PhaseGenerate, serrors.KindIO, err, "create "+outDir)
	}
	for _, name := range order {
		path := filepath.Join(outDir, name)
		if err := os.WriteFile(path, []byte(files[name]), 0o644); err != nil {
			return serrors.Wrap(serrors.PhaseGenerate, serrors.KindIO, err, "write "+path)
		}
		fmt.Fprintln(stdout, path)
	}
	return nil
}
