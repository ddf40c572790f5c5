package inference

import (
	"context"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/tuanns/meetmind/mcp"
	"github.com/tuanns/meetmind/message"
	"google.golang.org/genai"
)

// Model turns a conversation history plus the advertised tool set into
// the next assistant message: text blocks, tool_use blocks, or both.
type Model interface {
	Complete(ctx context.Context, msgs []*message.Message, tools mcp.Tools) (*message.Message, error)
	Name() string
}

type ModelConfig struct {
	Provider     string
	Model        string
	MaxTokens    int64
	SystemPrompt string
}

// Init builds the provider-specific model. The API key is read once
// here; a missing key is a startup error, not a per-request one.
func Init(ctx context.Context, config ModelConfig) (Model, error) {
	switch config.Provider {
	case AnthropicProvider:
		key := os.Getenv("ANTHROPIC_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set")
		}
		client := anthropic.NewClient(option.WithAPIKey(key))
		return NewAnthropicModel(&client, ModelVersion(config.Model), config.MaxTokens, config.SystemPrompt), nil

	case GoogleProvider:
		key := os.Getenv("GEMINI_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is not set")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		return NewGeminiModel(client, ModelVersion(config.Model), config.MaxTokens, config.SystemPrompt), nil

	default:
		return nil, fmt.Errorf("unknown model provider: %s", config.Provider)
	}
}

func ListAvailableModels(provider ProviderName) []ModelVersion {
	switch provider {
	case AnthropicProvider:
		return []ModelVersion{
			Claude4Opus,
			Claude4Sonnet,
			Claude37Sonnet,
			Claude35Sonnet,
			Claude35Haiku,
			Claude3Opus,
			Claude3Haiku,
		}
	case GoogleProvider:
		return []ModelVersion{
			Gemini25Pro,
			Gemini25Flash,
			Gemini25FlashLite,
			Gemini20Flash,
			Gemini15Pro,
		}
	default:
		return []ModelVersion{}
	}
}

func GetDefaultModel(provider ProviderName) ModelVersion {
	switch provider {
	case AnthropicProvider:
		return Claude4Sonnet
	case GoogleProvider:
		return Gemini25Flash
	default:
		return ""
	}
}
