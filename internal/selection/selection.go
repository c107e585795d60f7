// Package selection turns raw pointer-release and touch-end events coming
// from the document viewer into validated text selections.
package selection

import "strings"

type Kind string

const (
	KindPointerUp Kind = "pointerup"
	KindTouchEnd  Kind = "touchend"
)

// ReleaseEvent is what the page reports on every pointer release or touch end.
// Anchor lists the ids of the elements enclosing the selection's anchor node,
// nearest first.
type ReleaseEvent struct {
	Kind   Kind     `json:"kind"`
	Text   string   `json:"text"`
	Anchor []string `json:"anchor"`
}

// Event is a selection that passed validation.
type Event struct {
	Text           string
	InsideViewport bool
}

// Viewport decides whether an anchor belongs to the document viewer.
type Viewport interface {
	Contains(anchor []string) bool
}

// ContainerViewport owns every anchor that has the container element as an ancestor.
type ContainerViewport struct {
	ID string
}

func (v ContainerViewport) Contains(anchor []string) bool {
	if v.ID == "" {
		return false
	}
	for _, id := range anchor {
		if id == v.ID {
			return true
		}
	}
	return false
}

func normalize(text string) string {
	return strings.TrimSpace(text)
}
