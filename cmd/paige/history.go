package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print previous conversations in the order they happened",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()

			records := rt.store.All()
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}
			if len(records) == 0 {
				fmt.Fprintln(out, "No conversations yet.")
				return nil
			}
			for _, r := range records {
				fmt.Fprintf(out, "#%d  %s\n", r.ID, r.Timestamp.Local().Format(time.DateTime))
				fmt.Fprintf(out, "  selected: %s\n", r.SelectedText)
				fmt.Fprintf(out, "  question: %s\n", r.Question)
				fmt.Fprintf(out, "  answer:   %s\n\n", r.Answer)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw log as JSON")
	return cmd
}
