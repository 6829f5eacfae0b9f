package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/notebuilder/internal/config"
	"git.home.luguber.info/inful/notebuilder/internal/events"
	"git.home.luguber.info/inful/notebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/notebuilder/internal/logfields"
	"git.home.luguber.info/inful/notebuilder/internal/metrics"
	"git.home.luguber.info/inful/notebuilder/internal/report"
	"git.home.luguber.info/inful/notebuilder/internal/service"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"notebuilder.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
	} `cmd:"" help:"Resolve wikilinks and render the note tree to HTML"`

	Links struct {
		ScanOutput bool `help:"Also scan previously rendered output for published stub links"`
	} `cmd:"" help:"Resolve wikilinks and report dead links without rendering"`

	Watch struct {
	} `cmd:"" help:"Rebuild continuously as notes change"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`
}

func main() {
	kctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	adapter := errors.NewCLIErrorAdapter(CLI.Verbose, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch kctx.Command() {
	case "build":
		adapter.HandleError(runBuild(ctx, true, false))
	case "links":
		adapter.HandleError(runBuild(ctx, false, CLI.Links.ScanOutput))
	case "watch":
		adapter.HandleError(runWatch(ctx))
	case "init":
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			adapter.HandleError(errors.WrapError(err, errors.CategoryConfig, "failed to initialize configuration").Build())
		}
		fmt.Printf("Created %s\n", CLI.Config)
	}
}

func runBuild(ctx context.Context, renderOutput, scanOutput bool) error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "failed to load configuration").Build()
	}

	builder, cleanup, err := newBuilder(cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	builder.RenderOutput = renderOutput

	result, err := builder.Run(ctx)
	if err != nil {
		return err
	}

	printResult(result)

	if scanOutput {
		stubs, err := report.ScanRenderedSite(cfg.Output.Directory, cfg.Links.StubURL)
		if err != nil {
			slog.Warn("Stub scan of rendered output failed", logfields.Error(err))
		} else {
			fmt.Printf("Stub links in rendered output: %d\n", stubs)
		}
	}

	if len(result.Failures) > 0 {
		return errors.BuildError("one or more notes failed to resolve").
			WithContext("failures", len(result.Failures)).
			Build()
	}
	return nil
}

func runWatch(ctx context.Context) error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "failed to load configuration").Build()
	}

	builder, cleanup, err := newBuilder(cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	builder.RenderOutput = true

	if cfg.Metrics.Enabled {
		reg := prom.NewRegistry()
		builder.WithRecorder(metrics.NewPrometheusRecorder(reg))
		go func() {
			slog.Info("Serving metrics", slog.String("listen", cfg.Metrics.Listen))
			if err := http.ListenAndServe(cfg.Metrics.Listen, metrics.HTTPHandler(reg)); err != nil {
				slog.Error("Metrics endpoint failed", logfields.Error(err))
			}
		}()
	}

	err = service.NewWatcher(builder).Run(ctx)
	if err == context.Canceled {
		return nil
	}
	return err
}

// newBuilder wires the optional store and publisher into a builder. The
// returned cleanup closes whatever was opened.
func newBuilder(cfg *config.Config) (*service.Builder, func(), error) {
	builder := service.NewBuilder(cfg)

	var cleanups []func()
	cleanup := func() {
		for _, fn := range cleanups {
			fn()
		}
	}

	if cfg.Report.Database != "" {
		store, err := report.NewSQLiteStore(cfg.Report.Database)
		if err != nil {
			return nil, nil, errors.WrapError(err, errors.CategoryStore, "failed to open report database").
				WithContext("database", cfg.Report.Database).
				Build()
		}
		cleanups = append(cleanups, func() { _ = store.Close() })
		builder.WithStore(store)
	}

	if cfg.Events.Enabled {
		publisher, err := events.NewPublisher(cfg.Events.NATSURL, cfg.Events.Subject)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		cleanups = append(cleanups, publisher.Close)
		builder.WithPublisher(publisher)
	}

	return builder, cleanup, nil
}

func printResult(result *service.Result) {
	fmt.Printf("Build %s: %d notes, %d links, %d dead\n",
		result.BuildID, result.Notes, result.Links, len(result.DeadLinks))
	for _, token := range result.DeadLinks {
		fmt.Printf("  dead: %s\n", token)
	}
	for _, failure := range result.Failures {
		fmt.Printf("  failed: %s: %v\n", failure.Note, failure.Err)
	}
}
