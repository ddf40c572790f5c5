package prompts

import (
	_ "embed"
	"strings"
)

//go:embed system.md
var systemPrompt string

func System() string {
	return strings.TrimSpace(systemPrompt)
}

//go:embed kickoff.md
var kickoffPrompt string

//go:embed minutes.md
var minutesPrompt string

//go:embed format.md
var formatPrompt string

//go:embed demo.md
var demoPrompt string

// Slash is one canned prompt addressable as /<name> in the chat loop.
type Slash struct {
	Name        string
	Description string
	Text        string
}

// Slashes returns the canned prompts the tool server advertises, in a
// stable order.
func Slashes() []Slash {
	return []Slash{
		{
			Name:        "kickoff",
			Description: "Plan a new project kickoff meeting.",
			Text:        strings.TrimSpace(kickoffPrompt),
		},
		{
			Name:        "minutes",
			Description: "Generate meeting minutes from the details.",
			Text:        strings.TrimSpace(minutesPrompt),
		},
		{
			Name:        "format",
			Description: "Format all meetings into a markdown report.",
			Text:        strings.TrimSpace(formatPrompt),
		},
		{
			Name:        "demo",
			Description: "Populate the assistant with sample meeting data.",
			Text:        strings.TrimSpace(demoPrompt),
		},
	}
}

// ByName finds a canned prompt by name.
func ByName(name string) (Slash, bool) {
	for _, s := range Slashes() {
		if s.Name == name {
			return s, true
		}
	}
	return Slash{}, false
}
