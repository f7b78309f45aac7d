package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootDir string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rusty-refactor",
	Short: "Extract Rust code into new module files",
	Long: `rusty-refactor is the extraction engine behind the RustyRoad editor add-on.

It resolves the exact text range to pull out of a source file (by symbol
name, falling back to explicit line numbers) and resolves where the new
module file should land, including single-file to folder-module conversion
decisions.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "project root directory (default is the working directory)")
}

// projectRoot resolves the project root from the --root flag or cwd.
func projectRoot() (string, error) {
	if rootDir != "" {
		return rootDir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}
