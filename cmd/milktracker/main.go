package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"milktracker/internal/di"
	"milktracker/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	pflag.StringVarP(&flags.ConfigPath, "config", "c", "config.yaml", "path to the YAML config file")
	pflag.StringVarP(&flags.EnvPath, "env", "e", ".env", "path to an optional .env file")
	pflag.BoolVarP(&flags.DebugMode, "debug", "d", false, "log to stdout and enable sql logging")
	pflag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "milktracker: %s\n", err)
		os.Exit(1)
	}
}
