package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"paige/internal/analytics"
	"paige/internal/interaction"
)

func newStatsCmd() *cobra.Command {
	var date string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarise one day of conversations",
		RunE: func(cmd *cobra.Command, args []string) error {
			day := time.Now().UTC()
			if date != "" {
				d, err := time.Parse(time.DateOnly, date)
				if err != nil {
					return fmt.Errorf("invalid --date %q: %w", date, err)
				}
				day = d
			}

			rt, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()
			prompts, err := interaction.LoadQuickPrompts(rt.cfg.QuickPromptsPath)
			if err != nil {
				return err
			}

			stats := analytics.AnalyzeDaily(rt.store.All(), day, promptTexts(prompts))
			if asJSON {
				raw, err := stats.ToJSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), raw)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), stats.Summary())
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day to report, YYYY-MM-DD (default today, UTC)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
