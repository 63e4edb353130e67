package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-tagger/pkg/registry"
)

func newVerbsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verbs",
		Short: "List verb templates and placeholder options",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := a.loadRegistry()
			if err != nil {
				return err
			}
			return writeRegistry(cmd.OutOrStdout(), reg)
		},
	}
}

func writeRegistry(out io.Writer, reg *registry.Registry) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VERB\tTEMPLATE")
	for _, verb := range reg.Templates() {
		fmt.Fprintf(tw, "%s\t%s\n", verb.Name, verb.Pattern)
	}
	fmt.Fprintln(tw, "\t")
	fmt.Fprintln(tw, "PLACEHOLDER\tWIDGET\tOPTIONS")
	for _, placeholder := range reg.Placeholders() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", placeholder.Name, placeholder.Widget, strings.Join(placeholder.Values(), ", "))
	}
	return tw.Flush()
}
