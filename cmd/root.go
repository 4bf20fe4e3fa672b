package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rtfdocs/rtfd/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "rtfd",
	Short: "Host versioned documentation with a language and version switcher",
	Long: `rtfd builds documentation projects into per-language, per-branch trees,
serves them, and mounts the rtfd overlay on every page: a floating panel
that switches language and version and links back to the page source.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on error. Interrupts
// cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()
	exitOnError(err)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".rtfd.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

var (
	exit             = os.Exit
	errOut io.Writer = os.Stderr
)

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		exit(1)
	}
}
