package cmd

import (
	"github.com/filebridge/filebridge/pkg/logging"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// NewRootCommand returns the root command with all subcommands attached.
func NewRootCommand(fs afero.Fs, logger *logging.Logger) *cobra.Command {
	cobra.EnableCommandSorting = false
	rootCmd := &cobra.Command{
		Use:   "filebridge",
		Short: "File conversion, compression and media download backend.",
		Long: `Filebridge is an HTTP backend that converts and compresses files by
delegating to external tools (ghostscript, ffmpeg, libreoffice) and relays
media downloads, background removal and payment-gateway calls to their
upstream APIs.`,
	}
	rootCmd.AddCommand(NewServeCommand(fs, logger))
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}
