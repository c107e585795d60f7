package interaction

type Phase string

const (
	PhaseClosed     Phase = "closed"
	PhaseOpen       Phase = "open"
	PhaseSubmitting Phase = "submitting"
	PhaseAnswered   Phase = "answered"
	PhaseFailed     Phase = "failed"
)

const (
	// FailureMessage is shown for every backend failure regardless of cause.
	FailureMessage = "Sorry, something went wrong. Please try again."
	// AdvisoryMessage is shown once while the very first request of an empty history is pending.
	AdvisoryMessage = "The first request may take longer while the assistant wakes up."
)

// State is a snapshot of the popup. Which fields are set depends on Phase:
// Open carries SelectedText, Submitting adds Prompt and maybe Advisory,
// Answered carries Answer and Failed carries Error.
// Version grows with every change so observers can drop stale snapshots.
type State struct {
	Version      uint64 `json:"version"`
	Phase        Phase  `json:"phase"`
	SelectedText string `json:"selectedText,omitempty"`
	Prompt       string `json:"prompt,omitempty"`
	Answer       string `json:"answer,omitempty"`
	Error        string `json:"error,omitempty"`
	Advisory     string `json:"advisory,omitempty"`
	Draft        string `json:"draft"`
	InFlight     bool   `json:"inFlight"`
}

// ComposePrompt joins the selection and the question with one blank line.
func ComposePrompt(selectedText, question string) string {
	return selectedText + "\n\n" + question
}
