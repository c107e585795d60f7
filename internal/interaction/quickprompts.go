package interaction

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// QuickPrompt is a canned question submitted exactly like a typed one.
type QuickPrompt struct {
	ID   string `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
}

func DefaultQuickPrompts() []QuickPrompt {
	return []QuickPrompt{
		{ID: "meaning", Text: "Meaning of the word"},
		{ID: "explain", Text: "Explain this in simple terms"},
		{ID: "summarize", Text: "Summarize this paragraph"},
		{ID: "example", Text: "Give an example"},
	}
}

type quickPromptFile struct {
	QuickPrompts []QuickPrompt `yaml:"quickPrompts"`
}

// LoadQuickPrompts reads the prompt set from a YAML file.
// An empty path returns the defaults.
func LoadQuickPrompts(path string) ([]QuickPrompt, error) {
	if path == "" {
		return DefaultQuickPrompts(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read quick prompts: %w", err)
	}
	var f quickPromptFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse quick prompts: %w", err)
	}
	if len(f.QuickPrompts) == 0 {
		return nil, fmt.Errorf("quick prompts file %s defines no prompts", path)
	}
	seen := make(map[string]bool, len(f.QuickPrompts))
	for i, p := range f.QuickPrompts {
		p.ID = strings.TrimSpace(p.ID)
		p.Text = strings.TrimSpace(p.Text)
		if p.ID == "" || p.Text == "" {
			return nil, fmt.Errorf("quick prompt #%d needs both id and text", i+1)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate quick prompt id %q", p.ID)
		}
		seen[p.ID] = true
		f.QuickPrompts[i] = p
	}
	return f.QuickPrompts, nil
}
