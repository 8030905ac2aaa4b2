package cmd

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/askloop/askloop/internal/client/api"
	"github.com/askloop/askloop/internal/client/capture"
)

// ServerURL is set by the root command's --server flag.
var ServerURL string

func AskCmd() *cobra.Command {
	var (
		title     string
		text      string
		responder string
	)

	c := &cobra.Command{
		Use:   "ask [clip file]",
		Short: "Upload a recorded clip or a typed question",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			cap := capture.New(api.New(ServerURL))
			cap.SetTitle(title)
			cap.SetResponder(responder)

			if len(args) == 1 {
				payload, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}

				filename := filepath.Base(args[0])
				contentType := mime.TypeByExtension(filepath.Ext(filename))
				cap.AttachVideo(payload, filename, contentType)
			} else if text != "" {
				cap.AttachText(text)
			}

			item, err := cap.Send(cobraCmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("uploaded %q for @%s\n", item.Title, item.User)
			fmt.Println(item.URI)
			return nil
		},
	}

	c.Flags().StringVarP(&title, "title", "t", "", "question title (required, max 40 chars)")
	c.Flags().StringVar(&text, "text", "", "typed question instead of a clip file")
	c.Flags().StringVarP(&responder, "responder", "r", "", "responder username to address (default anonymous)")

	return c
}
