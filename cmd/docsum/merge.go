package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docsum/internal/merge"
)

var mergeCmd = &cobra.Command{
	Use:   "merge --out <file> <inputs...>",
	Short: "Concatenate PDFs in argument order",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			return errors.New("--out is required")
		}
		pages, err := merge.Merge(args, out)
		if err != nil {
			return err
		}
		logger.Info("merged", "inputs", len(args), "out", out, "pages", pages)
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%d pages)\n", out, pages)
		return nil
	},
}

func init() {
	mergeCmd.Flags().String("out", "", "output PDF path")
	rootCmd.AddCommand(mergeCmd)
}
