package main

import (
	"fmt"

	"github.com/IgorGrieder/encurtador-links/internal/processing/links"
	"github.com/spf13/cobra"
)

func newResolveCmd(c *cli) *cobra.Command {
	var cc links.ClickContext

	cmd := &cobra.Command{
		Use:   "resolve SHORTCODE",
		Short: "Resolve a shortcode and record a click",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shortcode := args[0]

			return c.withService(cmd.Context(), func(svc *links.Service) error {
				outcome, err := svc.Resolve(cmd.Context(), shortcode, cc)
				if err != nil {
					return err
				}

				switch outcome.Status {
				case links.RedirectFound:
					fmt.Fprintln(cmd.OutOrStdout(), outcome.LongURL)
					return nil
				case links.RedirectExpired:
					return fmt.Errorf("shortcode %q has expired", shortcode)
				default:
					return fmt.Errorf("shortcode %q not found", shortcode)
				}
			})
		},
	}

	cmd.Flags().StringVar(&cc.Source, "source", "", "click source (defaults to \"direct\")")
	cmd.Flags().StringVar(&cc.Location, "location", "", "click location (defaults to \"unknown\")")

	return cmd
}
