package interaction

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "quick_prompts.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadQuickPrompts_DefaultsWhenUnset(t *testing.T) {
	got, err := LoadQuickPrompts("")
	require.NoError(t, err)
	assert.Equal(t, DefaultQuickPrompts(), got)
}

func TestLoadQuickPrompts_FromYAML(t *testing.T) {
	p := writeFile(t, `
quickPrompts:
  - id: meaning
    text: "  Meaning of the word "
  - id: translate
    text: Translate to English
`)
	got, err := LoadQuickPrompts(p)
	require.NoError(t, err)
	assert.Equal(t, []QuickPrompt{
		{ID: "meaning", Text: "Meaning of the word"},
		{ID: "translate", Text: "Translate to English"},
	}, got)
}

func TestLoadQuickPrompts_Invalid(t *testing.T) {
	cases := map[string]string{
		"empty list":   "quickPrompts: []\n",
		"missing text": "quickPrompts:\n  - id: a\n",
		"duplicate":    "quickPrompts:\n  - {id: a, text: x}\n  - {id: a, text: y}\n",
		"not yaml":     "quickPrompts: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadQuickPrompts(writeFile(t, body))
			require.Error(t, err)
		})
	}
}

func TestLoadQuickPrompts_MissingFile(t *testing.T) {
	_, err := LoadQuickPrompts(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
