package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Doctusoft/lombok-ds/processor"
)

func newHandlersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "handlers",
		Short: "List the registered handlers in the order they run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PRIORITY\tTRIGGER\tNAME")
			for _, h := range processor.AllRegisteredHandlers() {
				fmt.Fprintf(w, "%d\t%s\t%s\n", h.Priority, h.Trigger, h.Name)
			}
			return w.Flush()
		},
	}
}
