package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"dmrmonitor/internal/di"
	"dmrmonitor/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	pflag.StringVarP(&flags.ConfigPath, "config", "c", "config.yml", "path to the configuration file")
	pflag.StringVarP(&flags.LogLevel, "log-level", "l", "", "override logger.level (debug, info, warn, error)")
	pflag.BoolVarP(&flags.DebugMode, "debug", "d", false, "log at debug level")
	pflag.Parse()

	app, err := di.InitApp(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dmrmonitor: %s\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "dmrmonitor: %s\n", err)
		os.Exit(1)
	}
}
