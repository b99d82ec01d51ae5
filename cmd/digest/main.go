package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/samvad-news-digest/internal/app"
	"github.com/samvad-hq/samvad-news-digest/internal/config"
	"github.com/samvad-hq/samvad-news-digest/internal/logger"
	"github.com/samvad-hq/samvad-news-digest/pkg/collection"
	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("digest", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: digest --config <path> [--date YYYY-MM-DD]")
		fs.PrintDefaults()
	}
	configPath := fs.StringP("config", "c", "", "path to the collection file (YAML or JSON)")
	date := fs.StringP("date", "d", "", "digest date YYYY-MM-DD at JST (default today)")
	fs.String("log-level", "info", "log level (debug|info|warn|error)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *configPath == "" {
		fmt.Fprintln(stderr, "Error: --config is required")
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintf(stderr, "Error: load config: %v\n", err)
		return 1
	}

	log, err := logger.Init(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: init logger: %v\n", err)
		return 1
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d, err := app.NewDigest(ctx, cfg, log, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.WarnObj("publisher close failed", "error", err.Error())
		}
	}()

	if _, err := d.Run(ctx, app.RunOptions{ConfigPath: *configPath, Date: *date}); err != nil {
		if errors.Is(err, collection.ErrNotFound) {
			fmt.Fprintf(stderr, "Error: Config file not found: %s\n", *configPath)
		} else {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		log.ErrorObj("digest run failed", "error", err.Error())
		return 1
	}
	return 0
}
