package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Morwran/yagpt"
)

// IAM tokens live about 12 hours; refresh a bit early so a long-running
// server never sends an expired one.
const iamRefreshMargin = 5 * time.Minute

// YandexClient talks to YandexGPT. The OAuth token is exchanged for an IAM
// token on demand and the IAM token is cached until shortly before expiry.
type YandexClient struct {
	ya  yagpt.YaGPTFace
	iam yagpt.IamFace
	now func() time.Time

	mu    sync.Mutex
	token *yagpt.IamTokenResponse
}

func NewYandex(oauthToken, folderID string) (*YandexClient, error) {
	iam, err := yagpt.NewYaIam(oauthToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init yandex iam: %w", err)
	}
	ya, err := yagpt.NewYagpt(folderID)
	if err != nil {
		_ = iam.Close()
		return nil, fmt.Errorf("failed to init yagpt: %w", err)
	}
	c := newYandexClient(ya, iam, time.Now)
	if _, err := c.iamToken(context.Background()); err != nil {
		_ = iam.Close()
		return nil, err
	}
	return c, nil
}

func newYandexClient(ya yagpt.YaGPTFace, iam yagpt.IamFace, now func() time.Time) *YandexClient {
	return &YandexClient{ya: ya, iam: iam, now: now}
}

func (c *YandexClient) iamToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != nil && c.now().Add(iamRefreshMargin).Before(c.token.ExpiresAt) {
		return c.token.IamToken, nil
	}
	resp, err := c.iam.CreateWithCtx(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create iam token: %w", err)
	}
	c.token = resp
	return resp.IamToken, nil
}

// Generate drops empty messages; YandexGPT rejects them.
func (c *YandexClient) Generate(ctx context.Context, messages []Message) (Response, error) {
	msgs := make([]yagpt.Message, 0, len(messages))
	for _, m := range messages {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		msgs = append(msgs, yagpt.Message{Role: m.Role, Content: m.Content})
	}
	if len(msgs) == 0 {
		return Response{}, errors.New("yagpt: nothing to send")
	}

	tok, err := c.iamToken(ctx)
	if err != nil {
		return Response{}, err
	}
	resp, err := c.ya.CompletionWithCtx(ctx, tok, msgs)
	if err != nil {
		return Response{}, fmt.Errorf("yagpt completion failed: %w", err)
	}
	if resp == nil || len(resp.Alternatives) == 0 {
		return Response{}, errors.New("yagpt returned empty response")
	}

	model := yagpt.YaModelLite
	if resp.ModelVersion != "" {
		model = yagpt.YaModelLite + "/" + resp.ModelVersion
	}
	return Response{
		Content:          resp.Alternatives[0].Message.Content,
		Model:            model,
		PromptTokens:     int(resp.Usage.InputTextTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:      int(resp.Usage.TotalTokens),
	}, nil
}
