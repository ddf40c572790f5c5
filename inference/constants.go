package inference

const (
	AnthropicModelName = "Claude"
	GoogleModelName    = "Gemini"
)

const (
	AnthropicProvider = "anthropic"
	GoogleProvider    = "google"
)

type ProviderName string
type ModelVersion string

const (
	// Claude
	Claude4Opus    ModelVersion = "claude-4-opus"
	Claude4Sonnet  ModelVersion = "claude-4-sonnet"
	Claude37Sonnet ModelVersion = "claude-3-7-sonnet"
	Claude35Sonnet ModelVersion = "claude-3-5-sonnet"
	Claude35Haiku  ModelVersion = "claude-3-5-haiku"
	Claude3Opus    ModelVersion = "claude-3-opus"
	Claude3Haiku   ModelVersion = "claude-3-haiku"
	// Gemini
	Gemini25Pro       ModelVersion = "gemini-2.5-pro"
	Gemini25Flash     ModelVersion = "gemini-2.5-flash"
	Gemini25FlashLite ModelVersion = "gemini-2.5-flash-lite"
	Gemini20Flash     ModelVersion = "gemini-2.0-flash"
	Gemini15Pro       ModelVersion = "gemini-1.5-pro"
)
