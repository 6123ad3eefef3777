package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mcceval/internal/classify"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List the registered classification strategies",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range classify.Names() {
			fmt.Println(name)
		}
	},
}
