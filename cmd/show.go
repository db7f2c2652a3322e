package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/planforge/planforge/internal/plan"
	"github.com/planforge/planforge/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <plan.yaml>",
	Short: "Render the plan tree with node and aggregate statuses",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadPlanFile(args[0])
		if err != nil {
			return err
		}

		name := p.Name
		if name == "" {
			name = p.ID
		}
		fmt.Println(ui.StyleHeader.Render(fmt.Sprintf("plan %s", name)))

		for _, st := range p.Stages {
			agg := plan.Aggregate(st.Works)
			fmt.Printf("%s [%s]\n", ui.StyleBold.Render(st.Name), ui.RenderStatus(agg))

			for _, w := range st.Works {
				fmt.Printf("  %s [%s] %d%%\n", w.Name, ui.RenderStatus(plan.Aggregate(w.Tasks)), plan.Progress(w.Tasks))

				for _, t := range w.Tasks {
					fmt.Printf("    %s [%s]\n", t.Name, ui.RenderStatus(t.Status))
					for _, sub := range t.Subtasks {
						fmt.Printf("      %s (%s) [%s]\n", sub.Name, sub.Executor, ui.RenderStatus(sub.Status))
					}
				}
			}
		}

		if len(p.Connections) > 0 {
			fmt.Println(ui.StyleDim.Render("connections:"))
			for _, c := range p.Connections {
				from, to := c.From, c.To
				if s := p.Stage(c.From); s != nil {
					from = s.Name
				}
				if s := p.Stage(c.To); s != nil {
					to = s.Name
				}
				fmt.Printf("  %s <-> %s\n", from, to)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
