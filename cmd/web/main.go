package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"supernova/internal/app"
	"supernova/internal/config"
	"supernova/internal/infrastructure"
	"supernova/pkg/contracts"
)

func main() {
	configFile := flag.String("config", "", "path to a YAML config file (overrides "+config.EnvPrefix+"_CONFIG)")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetVersionString())
		return
	}

	if *configFile != "" {
		os.Setenv(config.EnvPrefix+"_CONFIG", *configFile)
	}

	if err := run(); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	application, err := app.NewApplication()
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}
	defer infrastructure.CloseLogFile()

	return application.Run()
}
