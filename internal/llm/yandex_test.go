package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Morwran/yagpt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIam struct {
	issued int
	ttl    time.Duration
	now    func() time.Time
	err    error
}

func (f *fakeIam) Create() (*yagpt.IamTokenResponse, error) {
	return f.CreateWithCtx(context.Background())
}

func (f *fakeIam) CreateWithCtx(context.Context) (*yagpt.IamTokenResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.issued++
	return &yagpt.IamTokenResponse{
		IamToken:  "iam-" + string(rune('0'+f.issued)),
		ExpiresAt: f.now().Add(f.ttl),
	}, nil
}

func (f *fakeIam) Close() error { return nil }

type fakeYaGPT struct {
	tokens []string
	sent   [][]yagpt.Message
	resp   *yagpt.CompletionResponse
	err    error
}

func (f *fakeYaGPT) CompletionWithCtx(_ context.Context, tok string, m []yagpt.Message) (*yagpt.CompletionResponse, error) {
	f.tokens = append(f.tokens, tok)
	f.sent = append(f.sent, m)
	return f.resp, f.err
}

func (f *fakeYaGPT) Completion(tok string, m []yagpt.Message) (*yagpt.CompletionResponse, error) {
	return f.CompletionWithCtx(context.Background(), tok, m)
}

func TestYandexClient_GenerateMapsMessagesAndUsage(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	ya := &fakeYaGPT{resp: &yagpt.CompletionResponse{
		Alternatives: []yagpt.Alternative{{Message: yagpt.Message{Role: RoleAssistant, Content: "A measure of disorder."}}},
		Usage:        yagpt.ContentUsage{InputTextTokens: 9, CompletionTokens: 5, TotalTokens: 14},
	}}
	c := newYandexClient(ya, &fakeIam{ttl: 12 * time.Hour, now: clock}, clock)

	resp, err := c.Generate(context.Background(), []Message{
		{Role: RoleSystem, Content: ""},
		{Role: RoleUser, Content: "entropy\n\nMeaning of the word"},
	})
	require.NoError(t, err)
	assert.Equal(t, "A measure of disorder.", resp.Content)
	assert.Equal(t, yagpt.YaModelLite, resp.Model)
	assert.Equal(t, 9, resp.PromptTokens)
	assert.Equal(t, 14, resp.TotalTokens)

	require.Len(t, ya.sent, 1)
	assert.Equal(t, []yagpt.Message{{Role: RoleUser, Content: "entropy\n\nMeaning of the word"}}, ya.sent[0])
}

func TestYandexClient_RefreshesTokenBeforeExpiry(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	iam := &fakeIam{ttl: time.Hour, now: clock}
	ya := &fakeYaGPT{resp: &yagpt.CompletionResponse{
		Alternatives: []yagpt.Alternative{{Message: yagpt.Message{Content: "ok"}}},
	}}
	c := newYandexClient(ya, iam, clock)
	msgs := []Message{{Role: RoleUser, Content: "x"}}

	_, err := c.Generate(context.Background(), msgs)
	require.NoError(t, err)
	now = now.Add(30 * time.Minute)
	_, err = c.Generate(context.Background(), msgs)
	require.NoError(t, err)
	now = now.Add(28 * time.Minute) // inside the refresh margin
	_, err = c.Generate(context.Background(), msgs)
	require.NoError(t, err)

	assert.Equal(t, 2, iam.issued)
	assert.Equal(t, []string{"iam-1", "iam-1", "iam-2"}, ya.tokens)
}

func TestYandexClient_Errors(t *testing.T) {
	clock := time.Now
	msgs := []Message{{Role: RoleUser, Content: "x"}}

	c := newYandexClient(&fakeYaGPT{}, &fakeIam{ttl: time.Hour, now: clock}, clock)
	_, err := c.Generate(context.Background(), []Message{{Role: RoleUser, Content: "  "}})
	require.Error(t, err, "nothing to send")

	_, err = c.Generate(context.Background(), msgs)
	require.Error(t, err, "nil response")

	boom := errors.New("unavailable")
	c = newYandexClient(&fakeYaGPT{err: boom}, &fakeIam{ttl: time.Hour, now: clock}, clock)
	_, err = c.Generate(context.Background(), msgs)
	require.ErrorIs(t, err, boom)

	ya := &fakeYaGPT{}
	c = newYandexClient(ya, &fakeIam{err: boom, now: clock}, clock)
	_, err = c.Generate(context.Background(), msgs)
	require.ErrorIs(t, err, boom)
	assert.Empty(t, ya.sent, "no completion without a token")
}
