package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/IgorGrieder/encurtador-links/internal/processing/links"
	"github.com/spf13/cobra"
)

func newStatsCmd(c *cli) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats [SHORTCODE]",
		Short: "Show click statistics for every link, or for one shortcode",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd.Context(), func(svc *links.Service) error {
				var rows []links.StatsRow
				if len(args) == 1 {
					row, err := svc.StatsFor(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					rows = []links.StatsRow{row}
				} else {
					all, err := svc.Report(cmd.Context())
					if err != nil {
						return err
					}
					rows = all
				}

				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(rows)
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "SHORTCODE\tCLICKS\tCREATED AT\tEXPIRES AT\tLONG URL")
				for _, row := range rows {
					fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
						row.Shortcode,
						row.ClickCount,
						row.CreatedAt.Format(time.RFC3339),
						row.ExpiresAt.Format(time.RFC3339),
						row.LongURL,
					)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print rows as JSON including every click")

	return cmd
}
