package root

import (
	"github.com/spf13/cobra"

	"github.com/solverforge/solverforge/cmd/solverforge/nqueens"
	"github.com/solverforge/solverforge/cmd/solverforge/scheduling"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "solverforge",
		Short: "SolverForge is an incremental constraint-solving engine",
		Long: `An incremental constraint stream scoring and local search
solver, written in Go. This binary demonstrates the engine on two worked
scenarios; the engine itself lives in the score, model, serio, director,
and manager packages.`,
	}

	rootCmd.AddCommand(nqueens.NewCommand())
	rootCmd.AddCommand(scheduling.NewCommand())

	return rootCmd
}
