package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/erp/catalogconsole/internal/application/console"
	"github.com/erp/catalogconsole/internal/infrastructure/config"
	"github.com/erp/catalogconsole/internal/infrastructure/logger"
	"github.com/erp/catalogconsole/internal/infrastructure/remote"
	"github.com/erp/catalogconsole/internal/interfaces/terminal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	app := terminal.NewApp(newRuntime, os.Stdin, os.Stdout, os.Stderr)
	code := app.Run(ctx, os.Args)
	stop()
	os.Exit(code)
}

// newRuntime wires one controller from the config file and flags.
// Logs go to stderr so they never mix with table output.
func newRuntime(opts terminal.Options, notifier console.Notifier) (*terminal.Runtime, error) {
	cfg, err := config.LoadFile(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	if opts.BaseURL != "" {
		cfg.Remote.BaseURL = opts.BaseURL
	}

	log, err := logger.New(logger.ForTerminal(opts.Verbose, cfg.Log.TimeFormat))
	if err != nil {
		return nil, err
	}

	client, err := remote.NewClient(remote.Config{
		BaseURL:        cfg.Remote.BaseURL,
		ProductsPath:   cfg.Remote.ProductsPath,
		CategoriesPath: cfg.Remote.CategoriesPath,
		Timeout:        cfg.Remote.Timeout,
		Headers:        cfg.Remote.Headers,
	}, remote.WithLogger(log.Named("remote")))
	if err != nil {
		return nil, err
	}

	return &terminal.Runtime{
		Controller: console.NewController(client, notifier,
			console.WithDescriptionLimit(cfg.UI.DescriptionLimit),
			console.WithLogger(log.Named("console")),
		),
		Locale: cfg.UI.Locale,
		Close: func() {
			logger.Sync(log)
		},
	}, nil
}
