// Package backend is the single external capability of the reader:
// send a composed prompt, get an explanation back or fail.
package backend

import "context"

// Client may take anywhere from seconds to minutes on a cold start.
// Callers must not assume a latency bound.
type Client interface {
	Ask(ctx context.Context, prompt string) (string, error)
}
