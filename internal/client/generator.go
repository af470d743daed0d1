package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bprlabs/backend/pkg/xcontext"
)

// TextGeneratorCaller wraps the chat-completion API used by the coach
// features.
type TextGeneratorCaller interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type textGeneratorCaller struct {
	client *http.Client
}

func NewTextGeneratorCaller() *textGeneratorCaller {
	return &textGeneratorCaller{client: &http.Client{Timeout: 60 * time.Second}}
}

func (c *textGeneratorCaller) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	cfg := xcontext.Configs(ctx).AI

	type message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	body, err := json.Marshal(map[string]any{
		"model": cfg.Model,
		"messages": []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		"temperature": 0.7,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, cfg.Endpoint+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generator returned status %d", resp.StatusCode)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	if len(result.Choices) == 0 {
		return "", errors.New("generator returned no choices")
	}

	return result.Choices[0].Message.Content, nil
}
