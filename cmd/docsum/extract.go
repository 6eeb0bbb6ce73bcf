package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docsum/internal/parser"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Print the text extracted from one document",
	Long: `Extract runs the text extractor alone and prints what the summarizer
would receive for the file. Image-only PDFs print nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := parser.ParseFile(args[0], cfg.ParserOptions())
		if err != nil {
			return err
		}
		logger.Info("extracted", "path", args[0], "pages", tree.PageCount(), "sections", len(tree.Children))
		_, err = fmt.Fprintln(cmd.OutOrStdout(), tree.Text())
		return err
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
