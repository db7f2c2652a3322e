package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/planforge/planforge/internal/config"
	"github.com/planforge/planforge/internal/fault"
	"github.com/planforge/planforge/internal/store"
	"github.com/planforge/planforge/internal/ui"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear <task-id> <work-id>",
	Short: "Clear a work package's task list (destructive)",
	Long: `Clear discards a work package's entire task list so the planning
process can regenerate its scope. Child nodes are never deleted one by one;
replacing the list is the only removal mechanism, and it cannot be undone.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, workID := args[0], args[1]

		cfg := config.LoadOrDefault()
		ctx := context.Background()

		s, err := store.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB, nil)
		if err != nil {
			return err
		}
		defer s.Close()

		p, err := s.LoadPlan(ctx, taskID)
		if err != nil {
			return err
		}

		w := p.Work(workID)
		if w == nil {
			return fault.NotFound("work", workID)
		}

		if !clearYes {
			ok, err := ui.PromptConfirm(
				fmt.Sprintf("Discard all %d task(s) in work %q?", len(w.Tasks), w.Name), false)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println(ui.StyleDim.Render("aborted"))
				return nil
			}
		}

		if err := w.ReplaceTasks(nil); err != nil {
			return err
		}
		if err := s.SavePlan(ctx, taskID, p); err != nil {
			return err
		}

		fmt.Printf("%s work %s cleared\n", ui.StyleSuccess.Render("done"), w.Name)
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}
