// Package cli implements the curved command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is the daemon version reported by the CLI and the RPC surface.
const Version = "0.1.0-dev"

var (
	// Global flags
	configFile string
	quiet      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "curved",
	Short: "curved - bonding-curve token sale daemon",
	Long: `curved runs a bonding-curve token sale platform: creators list
fungible tokens whose price rises linearly with every unit sold, buyers
convert payments into tokens with automatic partial-fill refunds, and the
platform collects a basis-point fee on every purchase. The daemon exposes
an HTTP JSON-RPC API and an optional gRPC query service.`,
	Version: Version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "", "configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output to console after startup")
}
