package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/IgorGrieder/encurtador-links/internal/processing/links"
	"github.com/spf13/cobra"
)

func newCreateCmd(c *cli) *cobra.Command {
	var (
		urls       []string
		shortcodes []string
		validity   int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create up to 5 short links in one batch",
		Example: `  linkctl create --url https://example.com
  linkctl create --url https://a.io --shortcode promo --url https://b.io --validity 120`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(shortcodes) > len(urls) {
				return fmt.Errorf("got %d --shortcode values for %d --url values", len(shortcodes), len(urls))
			}

			var validityPtr *int
			if cmd.Flags().Changed("validity") {
				validityPtr = &validity
			}

			reqs := make([]links.CreateRequest, 0, len(urls))
			for i, u := range urls {
				req := links.CreateRequest{LongURL: u, ValidityMinutes: validityPtr}
				if i < len(shortcodes) {
					req.Shortcode = shortcodes[i]
				}
				reqs = append(reqs, req)
			}

			return c.withService(cmd.Context(), func(svc *links.Service) error {
				records, err := svc.CreateBatch(cmd.Context(), reqs)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "SHORTCODE\tSHORT URL\tEXPIRES AT\tLONG URL")
				for _, rec := range records {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
						rec.Shortcode,
						svc.ShortURL(rec.Shortcode),
						rec.ExpiresAt.Format(time.RFC3339),
						rec.LongURL,
					)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().StringArrayVar(&urls, "url", nil, "long URL to shorten (repeatable)")
	cmd.Flags().StringArrayVar(&shortcodes, "shortcode", nil, "custom shortcode for the url at the same position (repeatable)")
	cmd.Flags().IntVar(&validity, "validity", links.DefaultValidityMinutes, "validity in minutes for every link in the batch")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}
