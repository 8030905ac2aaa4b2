package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/askloop/askloop/internal/client/api"
	"github.com/askloop/askloop/internal/client/feed"
)

func WatchCmd() *cobra.Command {
	var limit int

	c := &cobra.Command{
		Use:   "watch",
		Short: "List the question feed",
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			fetcher := feed.New(api.New(ServerURL))

			items, err := fetcher.Fetch(cobraCmd.Context())
			if err != nil {
				return err
			}

			if len(items) == 0 {
				fmt.Println("the feed is empty")
				return nil
			}

			if limit > 0 && limit < len(items) {
				items = items[:limit]
			}

			for i, item := range items {
				fmt.Printf("%2d. [%s] %q @%s\n    %s\n", i+1, item.Kind, item.Title, item.User, item.URI)
			}
			return nil
		},
	}

	c.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n items")

	return c
}
