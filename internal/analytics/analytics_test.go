package analytics

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"paige/internal/conversation"
)

func TestAnalyzeDaily(t *testing.T) {
	testDate := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	quick := []string{"Meaning of the word", "Give an example"}

	records := []conversation.Record{
		{ID: 1, Timestamp: testDate.Add(2 * time.Hour), SelectedText: "entropy", Question: "Meaning of the word", Answer: "disorder"},
		{ID: 2, Timestamp: testDate.Add(3 * time.Hour), SelectedText: "Entropy ", Question: "Why does it grow?", Answer: "statistics"},
		{ID: 3, Timestamp: testDate.Add(4 * time.Hour), SelectedText: "enthalpy", Question: "Give an example", Answer: "boiling"},
		// next day, not counted
		{ID: 4, Timestamp: testDate.AddDate(0, 0, 1), SelectedText: "gibbs", Question: "Meaning of the word", Answer: "x"},
		// previous day, not counted
		{ID: 5, Timestamp: testDate.Add(-time.Second), SelectedText: "gibbs", Question: "Meaning of the word", Answer: "x"},
	}

	stats := AnalyzeDaily(records, testDate.Add(13*time.Hour), quick)

	if stats.Date != "2024-01-15" {
		t.Errorf("Expected date '2024-01-15', got '%s'", stats.Date)
	}
	if stats.TotalConversations != 3 {
		t.Errorf("Expected 3 conversations, got %d", stats.TotalConversations)
	}
	if stats.UniqueSelections != 2 {
		t.Errorf("Expected 2 unique selections, got %d", stats.UniqueSelections)
	}
	if stats.FreeFormQuestions != 1 {
		t.Errorf("Expected 1 free-form question, got %d", stats.FreeFormQuestions)
	}
	if stats.QuickPromptUses["Meaning of the word"] != 1 || stats.QuickPromptUses["Give an example"] != 1 {
		t.Errorf("Unexpected quick prompt uses: %v", stats.QuickPromptUses)
	}
	if len(stats.TopSelections) == 0 || stats.TopSelections[0].Text != "entropy" || stats.TopSelections[0].Count != 2 {
		t.Errorf("Unexpected top selections: %+v", stats.TopSelections)
	}
	wantAvgAnswer := float64(len("disorder")+len("statistics")+len("boiling")) / 3
	if stats.AvgAnswerLength != wantAvgAnswer {
		t.Errorf("Expected avg answer length %.2f, got %.2f", wantAvgAnswer, stats.AvgAnswerLength)
	}
}

func TestAnalyzeDaily_EmptyDay(t *testing.T) {
	stats := AnalyzeDaily(nil, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), nil)
	if stats.TotalConversations != 0 || stats.AvgAnswerLength != 0 {
		t.Errorf("Expected empty stats, got %+v", stats)
	}
	if !strings.Contains(stats.Summary(), "conversations: 0") {
		t.Errorf("Summary missing totals: %q", stats.Summary())
	}
}

func TestSummaryAndJSON(t *testing.T) {
	stats := &DailyStats{
		Date:               "2024-01-15",
		TotalConversations: 2,
		UniqueSelections:   1,
		QuickPromptUses:    map[string]int{"Meaning of the word": 2},
		TopSelections:      []Selection{{Text: "entropy", Count: 2}},
	}

	summary := stats.Summary()
	for _, want := range []string{"2024-01-15", "conversations: 2", "Meaning of the word: 2", `"entropy": 2`} {
		if !strings.Contains(summary, want) {
			t.Errorf("Summary missing %q:\n%s", want, summary)
		}
	}

	raw, err := stats.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	var back DailyStats
	if err := json.Unmarshal([]byte(raw), &back); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if back.TotalConversations != 2 {
		t.Errorf("Expected 2 conversations in JSON, got %d", back.TotalConversations)
	}
}
