package fatctl

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example-os/fatvol/internal/fatlog"
)

// AppName is the CLI's program name.
const AppName = "fatctl"

var verbose bool

// Execute builds and runs the fatctl command tree.
func Execute() error {
	rootCmd := &cobra.Command{
		Use:   AppName,
		Short: AppName + " - inspect and mount read-only FAT16/32 volume images",
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(defineInfoCommand())
	rootCmd.AddCommand(defineLsCommand())
	rootCmd.AddCommand(defineCatCommand())
	rootCmd.AddCommand(defineScanCommand())
	rootCmd.AddCommand(defineMountCommand())

	return rootCmd.Execute()
}

func logger() *zap.SugaredLogger {
	return fatlog.New(verbose)
}
