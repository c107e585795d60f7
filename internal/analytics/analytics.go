package analytics

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"paige/internal/conversation"
)

// DailyStats summarises the conversations of one day
type DailyStats struct {
	Date               string         `json:"date"`
	TotalConversations int            `json:"total_conversations"`
	UniqueSelections   int            `json:"unique_selections"`
	QuickPromptUses    map[string]int `json:"quick_prompt_uses"`
	FreeFormQuestions  int            `json:"free_form_questions"`
	AvgSelectionLength float64        `json:"avg_selection_length"`
	AvgAnswerLength    float64        `json:"avg_answer_length"`
	TopSelections      []Selection    `json:"top_selections,omitempty"`
}

// Selection is a highlighted text and how many times it was asked about
type Selection struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

const topSelections = 5

// AnalyzeDaily counts the records whose timestamp falls on targetDate.
// Questions equal to one of quickPrompts are counted per prompt, the rest as free-form.
func AnalyzeDaily(records []conversation.Record, targetDate time.Time, quickPrompts []string) *DailyStats {
	startOfDay := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, targetDate.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	stats := &DailyStats{
		Date:            startOfDay.Format("2006-01-02"),
		QuickPromptUses: make(map[string]int),
	}
	quick := make(map[string]bool, len(quickPrompts))
	for _, q := range quickPrompts {
		quick[q] = true
	}

	selections := make(map[string]int)
	var selectionRunes, answerRunes int
	for _, r := range records {
		if r.Timestamp.Before(startOfDay) || !r.Timestamp.Before(endOfDay) {
			continue
		}
		stats.TotalConversations++
		key := strings.ToLower(strings.TrimSpace(r.SelectedText))
		selections[key]++
		selectionRunes += len([]rune(r.SelectedText))
		answerRunes += len([]rune(r.Answer))
		if quick[r.Question] {
			stats.QuickPromptUses[r.Question]++
		} else {
			stats.FreeFormQuestions++
		}
	}

	stats.UniqueSelections = len(selections)
	if stats.TotalConversations > 0 {
		stats.AvgSelectionLength = float64(selectionRunes) / float64(stats.TotalConversations)
		stats.AvgAnswerLength = float64(answerRunes) / float64(stats.TotalConversations)
	}
	for text, n := range selections {
		stats.TopSelections = append(stats.TopSelections, Selection{Text: text, Count: n})
	}
	sort.Slice(stats.TopSelections, func(i, j int) bool {
		a, b := stats.TopSelections[i], stats.TopSelections[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Text < b.Text
	})
	if len(stats.TopSelections) > topSelections {
		stats.TopSelections = stats.TopSelections[:topSelections]
	}
	return stats
}

// Summary renders a short human-readable report
func (ds *DailyStats) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Reading activity for %s:\n", ds.Date)
	fmt.Fprintf(&b, "- conversations: %d\n", ds.TotalConversations)
	fmt.Fprintf(&b, "- unique selections: %d\n", ds.UniqueSelections)
	fmt.Fprintf(&b, "- free-form questions: %d\n", ds.FreeFormQuestions)

	if len(ds.QuickPromptUses) > 0 {
		names := make([]string, 0, len(ds.QuickPromptUses))
		for name := range ds.QuickPromptUses {
			names = append(names, name)
		}
		sort.Strings(names)
		b.WriteString("Quick prompts:\n")
		for _, name := range names {
			fmt.Fprintf(&b, "- %s: %d\n", name, ds.QuickPromptUses[name])
		}
	}
	if len(ds.TopSelections) > 0 {
		b.WriteString("Most asked about:\n")
		for _, s := range ds.TopSelections {
			fmt.Fprintf(&b, "- %q: %d\n", s.Text, s.Count)
		}
	}
	return b.String()
}

func (ds *DailyStats) ToJSON() (string, error) {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
