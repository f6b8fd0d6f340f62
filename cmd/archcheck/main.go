package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/vincenthirtz/pulse-js-framework-sub001/internal/app"
	"github.com/vincenthirtz/pulse-js-framework-sub001/internal/config"
	"github.com/vincenthirtz/pulse-js-framework-sub001/internal/report"
)

var (
	configPath = flag.String("config", "./archcheck.toml", "Path to config file")
	graphOut   = flag.Bool("graph", false, "Print a mermaid graph of the module dependencies")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging and the unresolved-references section")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("archcheck v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if *configPath != "./archcheck.toml" || !errors.Is(err, fs.ErrNotExist) {
			slog.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
		cfg, err = config.Load("./archcheck.example.toml")
		if err != nil {
			slog.Debug("no config file found, using built-in defaults", "error", err)
			cfg = config.Default()
		}
	}

	root, err := os.Getwd()
	if err != nil {
		slog.Error("failed to resolve working directory", "error", err)
		os.Exit(1)
	}

	analyzer, err := app.New(cfg, root)
	if err != nil {
		slog.Error("failed to initialize analyzer", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	var result *app.Result
	if flag.NArg() > 0 {
		result, err = analyzer.RunTarget(ctx, flag.Arg(0))
	} else {
		result, err = analyzer.Run(ctx)
	}
	if err != nil {
		slog.Error("analysis failed", "error", err)
		os.Exit(1)
	}

	result.Report.Render(os.Stdout, report.RenderOptions{
		TopCoupling:    cfg.Output.TopCoupling,
		ShowUnresolved: *verbose,
	})

	if *graphOut {
		fmt.Println()
		fmt.Print(report.Mermaid(result.Graph, result.Classifier, append(result.Report.LayerViolations, result.Report.PlatformViolations...)))
	}

	if result.Report.Status != report.StatusClean {
		os.Exit(1)
	}
}
