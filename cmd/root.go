package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "planforge",
	Short: "planforge - hierarchical execution plans for agent teams",
	Long: `planforge decomposes a problem into a staged execution plan
(Stage > Work > Task > Subtask) and tracks it through its lifecycle.

Plan Commands:
  validate <plan.yaml>   Check dependencies, ordering and tree invariants
  order <plan.yaml>      Print the dependency-resolved execution order
  show <plan.yaml>       Render the plan tree with statuses

Store Commands:
  trace <task-id>        Tail the task's activity stream
  clear <task-id> <work> Clear a work package's task list (destructive)`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
