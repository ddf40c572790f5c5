package commands

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/tuanns/meetmind/conversation"
	"github.com/tuanns/meetmind/utils"
)

var conversationCmd = &cobra.Command{
	Use:   "conversation",
	Short: "Show conversations",
}

func NewConversationCmd() *cobra.Command {
	conversationCmd.AddCommand(conversationListCmd)

	return conversationCmd
}

var conversationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all conversations",
	RunE:  ListHandler,
}

func ListHandler(cmd *cobra.Command, args []string) error {
	db, err := conversation.InitDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err.Error())
	}
	defer db.Close()

	conversations, err := conversation.List(db)
	if err != nil {
		log.Fatalf("Error listing conversations: %v", err)
	}

	if len(conversations) == 0 {
		fmt.Println("No conversations found.")
		return nil
	}

	rows := make([][]string, 0, len(conversations))
	for _, conv := range conversations {
		rows = append(rows, []string{
			conv.ID,
			conv.CreatedAt.Format(time.RFC3339),
			strconv.Itoa(conv.MessageCount),
		})
	}
	utils.RenderTable([]string{"ID", "Created", "Messages"}, rows)

	return nil
}
