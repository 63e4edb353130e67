package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-tagger/pkg/renderers/tui"
)

func newTagCommand(a *app) *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Tag cards interactively in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := a.build(cmd.Context())
			if err != nil {
				return err
			}
			session, err := tui.NewSession(rt.submitter, rt.catalog,
				tui.WithRegistry(rt.registry),
				tui.WithPrompter(tui.NewSurveyPrompter(cmd.OutOrStdout())),
				tui.WithUser(user),
				tui.WithLogger(a.logger.Named("tui")),
			)
			if err != nil {
				return err
			}
			saved, err := session.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d submission(s) to %s\n", saved, rt.journal.Path())
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "name recorded with each submission (prompted when empty)")
	return cmd
}
