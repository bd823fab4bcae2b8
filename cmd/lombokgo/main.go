// Command lombokgo runs the lombok handlers over Java sources and prints,
// writes or diffs the transformed sources.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Doctusoft/lombok-ds/logger"

	// registers all handlers
	_ "github.com/Doctusoft/lombok-ds/handlers"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		verbosity int
		jsonLogs  bool
	)
	root := &cobra.Command{
		Use:   "lombokgo",
		Short: "Expand lombok annotations in Java sources",
		Long: `lombokgo expands lombok annotations in Java sources.

Every registered handler runs over each source file, in priority order, and
the annotations it handled are removed from the output.

Examples:
  lombokgo process 'src/**/*.java'          # print transformed sources
  lombokgo process --diff 'src/**/*.java'   # show what would change
  lombokgo process --write --watch src      # rewrite files as they change
  lombokgo handlers                         # list registered handlers`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Initialize(jsonLogs, logger.VerbosityToLevel(verbosity)); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
	}
	root.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v, -vv)")
	root.PersistentFlags().BoolVar(&jsonLogs, "log-json", false, "Write logs as JSON")

	root.AddCommand(newProcessCmd(), newHandlersCmd(), newVersionCmd())
	return root
}
