package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bryanwahyu/triagedesk/internal/infra/diagnosisapi"
)

func newSchemasCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "schemas",
		Short: "List the API schemas and their validation policies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			active := strings.TrimSpace(c.cfg.API.Schema)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SCHEMA\tPATH\tFIELDS\tPOLICY")
			for _, s := range diagnosisapi.Schemas() {
				name := s.Name()
				if name == active {
					name += " *"
				}
				fields := make([]string, 0, len(s.Fields()))
				for _, f := range s.Fields() {
					fields = append(fields, flagName(f))
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, s.Path(), strings.Join(fields, ","), policyLine(s.Policy()))
			}
			return tw.Flush()
		},
	}
}
