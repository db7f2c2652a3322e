package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/planforge/planforge/internal/plan"
	"github.com/planforge/planforge/internal/ui"
)

var orderCmd = &cobra.Command{
	Use:   "order <plan.yaml>",
	Short: "Print the dependency-resolved execution order per container",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadPlanFile(args[0])
		if err != nil {
			return err
		}
		if err := plan.ValidatePlan(p); err != nil {
			return err
		}

		for _, st := range p.Stages {
			fmt.Println(ui.StyleHeader.Render(fmt.Sprintf("stage %s", st.Name)))

			workOrder, err := plan.TopologicalOrder(st.Works)
			if err != nil {
				return err
			}
			for i, workID := range workOrder {
				w := p.Work(workID)
				fmt.Printf("  %d. %s\n", i+1, w.Name)

				taskOrder, err := plan.TopologicalOrder(w.Tasks)
				if err != nil {
					return err
				}
				for j, taskID := range taskOrder {
					fmt.Printf("     %d.%d %s\n", i+1, j+1, p.Task(taskID).Name)
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(orderCmd)
}
