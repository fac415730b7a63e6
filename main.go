package main

import (
	"os"

	"github.com/filebridge/filebridge/cmd"
	"github.com/filebridge/filebridge/pkg/logging"
	"github.com/spf13/afero"
)

func main() {
	fs := afero.NewOsFs()
	logger := logging.GetLogger()

	rootCmd := cmd.NewRootCommand(fs, logger)
	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
