package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tuanns/meetmind/inference"
)

var (
	modelConfig inference.ModelConfig
	envPath     string
	dbPath      string
	verbose     bool
)

// The base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "meetmind",
	Short: "An AI meeting assistant you talk to from the terminal",
	Long: `Meetmind is a command line meeting assistant. You describe meetings in
plain language and the model schedules them, tracks attendees, action
items and notes, and produces summaries and Markdown reports through a
local tool server.`,
	// Run before any subcommand
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		err := godotenv.Load(envPath)
		if err != nil && verbose {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
			fmt.Println("Continuing without environment variables from .env file...")
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.PersistentFlags().StringVar(&modelConfig.Provider, "provider", inference.AnthropicProvider, "Model provider (anthropic, google)")
	rootCmd.PersistentFlags().StringVar(&modelConfig.Model, "model", "", "Model to use (depends on selected provider)")
	rootCmd.PersistentFlags().Int64Var(&modelConfig.MaxTokens, "max-tokens", 1024, "Maximum number of tokens in response")
	rootCmd.PersistentFlags().StringVar(&envPath, "env", "./.env", "Path to .env file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the conversation database")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose output")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(NewConversationCmd())
	rootCmd.AddCommand(modelCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
