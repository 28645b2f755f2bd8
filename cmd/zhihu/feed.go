package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newFeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "feed",
		Short: "Print the recommended questions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openSession(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			topics, err := rt.service.FetchFeed(cmd.Context())
			if err != nil {
				return err
			}
			if len(topics) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recommendations loaded; check that the cookie is valid.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, topic := range topics {
				fmt.Fprintf(w, "%s\t%s\n", topic.ID, topic.Title)
			}
			return w.Flush()
		},
	}
}
