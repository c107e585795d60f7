package conversation

import "time"

// Record is one question/answer exchange tied to a selection.
// Records are immutable once appended and kept in creation order.
type Record struct {
	ID           int64     `json:"id"`
	SelectedText string    `json:"selectedText"`
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	Timestamp    time.Time `json:"timestamp"`
}
