package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/askloop/askloop/internal/client/api"
)

func SearchCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the responder directory by name or keyword",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}

			responders, err := api.New(ServerURL).Responders(cobraCmd.Context(), query)
			if err != nil {
				return err
			}

			if len(responders) == 0 {
				fmt.Println("no responders found")
				return nil
			}

			for _, r := range responders {
				fmt.Printf("@%s", r.Username)
				if len(r.Keywords) > 0 {
					fmt.Printf("  (%s)", strings.Join(r.Keywords, ", "))
				}
				fmt.Println()
			}
			return nil
		},
	}

	return c
}
