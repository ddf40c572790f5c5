package commands

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/tuanns/meetmind/conversation"
	"github.com/tuanns/meetmind/inference"
	"github.com/tuanns/meetmind/mcp"
	"github.com/tuanns/meetmind/prompts"
	"github.com/tuanns/meetmind/session"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start a chat with the meeting assistant",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		db, err := conversation.InitDB(dbPath)
		if err != nil {
			log.Fatalf("Failed to initialize database: %s", err.Error())
		}
		defer db.Close()

		modelConfig.SystemPrompt = prompts.System()

		provider := inference.ProviderName(modelConfig.Provider)
		if modelConfig.Model == "" {
			defaultModel := inference.GetDefaultModel(provider)
			if verbose {
				fmt.Printf("No model specified, using default: %s\n", defaultModel)
			}
			modelConfig.Model = string(defaultModel)
		}

		model, err := inference.Init(ctx, modelConfig)
		if err != nil {
			log.Fatalf("Failed to initialize model: %s", err.Error())
		}

		// The tool server is this same binary running its serve
		// subcommand, talked to over stdio.
		exePath, err := os.Executable()
		if err != nil {
			log.Fatalf("Failed to locate executable: %s", err.Error())
		}

		toolServer, err := mcp.NewServer("meetmind", exePath+" serve")
		if err != nil {
			log.Fatalf("Failed to configure tool server: %s", err.Error())
		}
		if err := toolServer.Start(ctx); err != nil {
			log.Fatalf("Failed to start tool server: %s", err.Error())
		}
		defer toolServer.Close()

		scanner := bufio.NewScanner(os.Stdin)
		getUserMsg := func() (string, bool) {
			if !scanner.Scan() {
				return "", false
			}
			return scanner.Text(), true
		}

		sess, err := session.New(model, toolServer, getUserMsg, os.Stdout)
		if err != nil {
			log.Fatalf("Failed to create session: %s", err.Error())
		}

		runErr := sess.Run(ctx)

		if len(sess.Conversation().Messages) > 0 {
			if err := sess.Conversation().SaveTo(db); err != nil {
				fmt.Printf("Warning: failed to save conversation: %v\n", err)
			} else if verbose {
				fmt.Printf("Conversation saved: %s\n", sess.Conversation().ID)
			}
		}

		if runErr != nil {
			log.Fatalf("Error: %s", runErr.Error())
		}
	},
}
