package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCardsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Manage the local card catalog",
	}

	refresh := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch every card of the series and rewrite the cache",
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := a.loadCatalog(cmd.Context(), true)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cached %d cards from %q in %s\n", catalog.Len(), a.cfg.Cards.Series, a.cfg.Cards.CacheFile)
			return nil
		},
	}

	draw := &cobra.Command{
		Use:   "draw",
		Short: "Print a random card from the catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := a.loadCatalog(cmd.Context(), false)
			if err != nil {
				return err
			}
			card, err := catalog.DrawRandomCard()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", card.ID, card.ImageURL)
			return nil
		},
	}

	cmd.AddCommand(refresh, draw)
	return cmd
}
