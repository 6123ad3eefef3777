package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mcceval/internal/mcc"
)

var codesCmd = &cobra.Command{
	Use:   "codes [code...]",
	Short: "Show the category code table, or look up specific codes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initLogging(cmd); err != nil {
			return err
		}
		path, _ := cmd.Flags().GetString("codes")
		table := mcc.Load(path)

		if len(args) == 0 {
			for _, e := range table.Entries() {
				printEntry(e)
			}
			return nil
		}

		for _, code := range args {
			e, ok := table.Lookup(code)
			if !ok {
				return fmt.Errorf("unknown category code %q", code)
			}
			printEntry(e)
		}
		return nil
	},
}

func init() {
	codesCmd.Flags().String("codes", "", "Category code CSV (default: embedded list)")
}

func printEntry(e mcc.Entry) {
	fmt.Printf("%s  %-12s  %s\n", e.Code, e.Risk, e.Description)
}
