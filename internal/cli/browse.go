package cli

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/RustyRoad/rusty-refactor-sub001/internal/config"
	"github.com/RustyRoad/rusty-refactor-sub001/internal/convert"
	"github.com/RustyRoad/rusty-refactor-sub001/internal/navigator"
)

var (
	browsePath   string
	browseModule string
)

// browseCmd represents the browse command
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "List one directory the way target selection sees it",
	Long: `Browse performs a single target-selection listing: directories (with
convention annotations), convertible module files (with conversion notes from
the native analyzer, when present), and convention suggestions.

Examples:
  # List the source root
  rusty-refactor browse

  # List a subdirectory, phrasing conversion notes for a module name
  rusty-refactor browse --path src/services --module billing
`,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
	browseCmd.Flags().StringVarP(&browsePath, "path", "p", "", "directory to list (default is the source root)")
	browseCmd.Flags().StringVarP(&browseModule, "module", "m", "new_module", "module name used in conversion notes")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfigFromDir(root)
	if err != nil {
		return err
	}

	checker := convert.NewBinaryChecker(cfg.Analyzer.Binary, time.Duration(cfg.Analyzer.TimeoutSeconds)*time.Second)
	nav, err := navigator.New(navigator.NewOSLister(root), checker, navigator.Options{
		WorkspaceRoot:   root,
		SourceRoot:      cfg.SourceRoot,
		ModuleExtension: cfg.ModuleExtension,
		ConventionMode:  cfg.ConventionMode,
		IgnorePatterns:  cfg.Ignore,
	})
	if err != nil {
		return err
	}

	path := browsePath
	if path == "" {
		path = nav.SourceRoot()
	}

	listing, err := nav.ListDirectory(cmd.Context(), path, browseModule)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(listing)
}
