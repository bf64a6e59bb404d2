// Package commands implements the subtype CLI's cobra command tree.
package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// colorMode controls whether colored output is used: "auto", "always", or
// "never". Set via the --color persistent flag.
var colorMode string

// rootCmd is the top-level cobra command for subtype.
var rootCmd = &cobra.Command{
	Use:   "subtype",
	Short: "Asynchronous subtyping decision procedure for multiparty session types",
	Long: "subtype decides whether one role-projected CFSM may be safely substituted\n" +
		"wherever another is expected, per the asynchronous subtyping relation.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		applyColorMode(colorMode)
		return nil
	},
	// Silence cobra's built-in usage/error printing so we control it.
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto",
		"colored output: auto, always, never")

	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(convertCmd())
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(versionCmd())
}

func applyColorMode(mode string) {
	switch mode {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default: // "auto": leave fatih/color's own terminal detection in place.
	}
}

// Execute runs the root command and exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
