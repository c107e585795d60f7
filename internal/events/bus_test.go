package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"paige/internal/interaction"
)

func TestBus_DeliversPublishedStates(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewBus(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := bus.Subscribe(ctx)
	require.NoError(t, err)

	bus.Publish(interaction.State{Version: 1, Phase: interaction.PhaseOpen, SelectedText: "entropy"})
	bus.Publish(interaction.State{Version: 2, Phase: interaction.PhaseClosed})

	seen := map[uint64]interaction.State{}
	timeout := time.After(5 * time.Second)
	for len(seen) < 2 {
		select {
		case payload := <-ch:
			var s interaction.State
			require.NoError(t, json.Unmarshal(payload, &s))
			seen[s.Version] = s
		case <-timeout:
			t.Fatalf("timed out, got %d states", len(seen))
		}
	}
	require.Equal(t, "entropy", seen[1].SelectedText)
	require.Equal(t, interaction.PhaseClosed, seen[2].Phase)

	cancel()
	require.NoError(t, bus.Close())
}

func TestBus_PublishWithoutSubscribersDoesNotBlock(t *testing.T) {
	bus := NewBus(nil)
	defer func() { _ = bus.Close() }()

	done := make(chan struct{})
	go func() {
		bus.Publish(interaction.State{Version: 1, Phase: interaction.PhaseOpen})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked without subscribers")
	}
}

func TestBus_PublishAfterCloseIsHarmless(t *testing.T) {
	bus := NewBus(nil)
	require.NoError(t, bus.Close())
	bus.Publish(interaction.State{Version: 1})
}
