package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/planforge/planforge/internal/config"
	"github.com/planforge/planforge/internal/store"
	"github.com/planforge/planforge/internal/ui"
)

var traceTail int64

var traceCmd = &cobra.Command{
	Use:   "trace <task-id>",
	Short: "Tail a task's activity stream from the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadOrDefault()
		ctx := context.Background()

		s, err := store.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB, nil)
		if err != nil {
			return err
		}
		defer s.Close()

		records, err := s.TailActivity(ctx, args[0], traceTail)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println(ui.StyleDim.Render("no activity recorded"))
			return nil
		}

		for _, a := range records {
			mark := ui.StyleSuccess.Render("ok")
			if !a.Success {
				mark = ui.StyleError.Render("failed")
			}
			fmt.Printf("[%s] %s %s: %s\n", mark, a.Agent, a.Action, a.Description)
		}
		return nil
	},
}

func init() {
	traceCmd.Flags().Int64Var(&traceTail, "tail", 20, "number of records to show")
	rootCmd.AddCommand(traceCmd)
}
