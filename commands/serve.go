package commands

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/tuanns/meetmind/meeting"
	"github.com/tuanns/meetmind/server"
	"github.com/tuanns/meetmind/tools"
)

// serveCmd runs the meeting tool server over stdin/stdout. The chat
// command spawns it as a subprocess; it is not meant to be run by hand.
var serveCmd = &cobra.Command{
	Use:    "serve",
	Short:  "Run the meeting tool server over stdio",
	Hidden: true,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		store := meeting.NewStore()
		box := tools.NewToolBox(store)

		if err := server.New(box).Run(ctx, os.Stdin, os.Stdout); err != nil {
			log.Fatalf("Tool server error: %s", err.Error())
		}
	},
}
