package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mahalla",
		Short: "Residential maintenance desk",
		Long: `Mahalla keeps the maintenance orders of a residential block.
Residents file and close orders, administrators manage residents and review the results.`,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newHashPasswordCmd())
	return root
}
