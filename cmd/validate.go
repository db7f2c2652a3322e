package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/planforge/planforge/internal/fault"
	"github.com/planforge/planforge/internal/plan"
	"github.com/planforge/planforge/internal/ui"
)

var validateCmd = &cobra.Command{
	Use:   "validate <plan.yaml>",
	Short: "Check a plan's dependencies, ordering and tree invariants",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadPlanFile(args[0])
		if err != nil {
			return err
		}

		if err := plan.ValidatePlan(p); err != nil {
			category, msg := fault.NewMapper(nil).Map(err)
			fmt.Printf("%s %s: %s\n", ui.StyleError.Render("invalid"), category, msg)
			return err
		}

		fmt.Printf("%s %d stage(s), %d connection(s)\n",
			ui.StyleSuccess.Render("valid"), len(p.Stages), len(p.Connections))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
