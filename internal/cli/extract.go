package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/RustyRoad/rusty-refactor-sub001/internal/region"
	"github.com/RustyRoad/rusty-refactor-sub001/internal/symbols"
)

var (
	extractFile     string
	extractModule   string
	extractFunction string
	extractStart    int
	extractEnd      int
	extractJSON     bool
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Resolve the extraction range for a symbol or line range",
	Long: `Extract resolves the exact text range to pull out of a source file.

Resolution is symbol-first: a named top-level declaration (including its
attached doc comments and attributes) wins over line numbers, because line
numbers go stale after prior edits. The output always reports which method
produced the range.

Examples:
  # Resolve by symbol name
  rusty-refactor extract --file src/main.rs --module billing --function process_payment

  # Resolve by explicit line range
  rusty-refactor extract --file src/main.rs --module billing --start 40 --end 78

  # Symbol name with a line hint to disambiguate cfg variants
  rusty-refactor extract --file src/lib.rs --module billing --function handler --start 120
`,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVarP(&extractFile, "file", "f", "", "source file to extract from (required)")
	extractCmd.Flags().StringVarP(&extractModule, "module", "m", "", "name of the new module (required)")
	extractCmd.Flags().StringVar(&extractFunction, "function", "", "top-level symbol to extract")
	extractCmd.Flags().IntVar(&extractStart, "start", 0, "start line (1-indexed)")
	extractCmd.Flags().IntVar(&extractEnd, "end", 0, "end line (inclusive)")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "emit the resolved region as JSON")
	extractCmd.MarkFlagRequired("file")
	extractCmd.MarkFlagRequired("module")
}

func runExtract(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}

	sourcePath := extractFile
	if !filepath.IsAbs(sourcePath) {
		sourcePath = filepath.Join(root, sourcePath)
	}

	resolver := region.NewResolver(symbols.NewIndex())
	req := region.Request{
		SourceFilePath: sourcePath,
		ModuleName:     extractModule,
		FunctionName:   extractFunction,
		StartLine:      extractStart,
		EndLine:        extractEnd,
	}

	resolved, err := resolver.ResolveFile(req)
	if err != nil {
		if errors.Is(err, region.ErrRegionNotFound) {
			return fmt.Errorf("nothing was extracted: %w", err)
		}
		return err
	}

	if extractJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(resolved)
	}

	fmt.Printf("Resolved lines %d-%d via %s:\n\n%s\n", resolved.StartLine, resolved.EndLine, resolved.Method, resolved.Text)
	return nil
}
