package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"paige/internal/interaction"
	"paige/internal/selection"
)

func newAskCmd() *cobra.Command {
	var text, question, quick string
	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Ask about a piece of text once and record the exchange",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (question == "") == (quick == "") {
				return errors.New("exactly one of --question or --quick is required")
			}
			ctx := cmd.Context()
			rt, err := setup(ctx)
			if err != nil {
				return err
			}
			defer rt.close()

			client, err := newBackendClient(rt.cfg, rt.log)
			if err != nil {
				return err
			}
			prompts, err := interaction.LoadQuickPrompts(rt.cfg.QuickPromptsPath)
			if err != nil {
				return err
			}
			ctrl := interaction.NewController(client, rt.store,
				interaction.WithQuickPrompts(prompts),
				interaction.WithLogger(rt.log),
			)

			// same validation as a selection made in the viewer
			viewport := selection.ContainerViewport{ID: rt.cfg.ViewportID}
			monitor := selection.NewMonitor(viewport, ctrl, rt.log)
			if !monitor.Handle(selection.ReleaseEvent{Kind: selection.KindPointerUp, Text: text, Anchor: []string{viewport.ID}}) {
				return errors.New("--text must not be empty")
			}

			if quick != "" {
				err = ctrl.SubmitQuick(quick)
			} else {
				err = ctrl.Submit(question)
			}
			if err != nil {
				return err
			}
			if s := ctrl.State(); s.Advisory != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), s.Advisory)
			}
			if err := ctrl.Wait(ctx); err != nil {
				return err
			}

			s := ctrl.State()
			if s.Phase == interaction.PhaseFailed {
				return errors.New(s.Error)
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.Answer)
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "selected text")
	cmd.Flags().StringVar(&question, "question", "", "free-form question")
	cmd.Flags().StringVar(&quick, "quick", "", "quick prompt id (meaning, explain, summarize, example)")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}
