package receipts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	anthropicVersion   = "2023-06-01"
	DefaultClaudeModel = "claude-3-5-sonnet-20241022"
)

// ClaudeParser reads receipts with the Anthropic Messages API.
type ClaudeParser struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	now     func() time.Time
}

func NewClaudeParser(apiKey, model, baseURL string, client *http.Client) *ClaudeParser {
	if model == "" {
		model = DefaultClaudeModel
	}
	return &ClaudeParser{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		now:     time.Now,
	}
}

func (p *ClaudeParser) Name() string { return "Claude Vision" }

func (p *ClaudeParser) ParseReceipt(ctx context.Context, imageURL, mimeType string) (*Receipt, error) {
	r, err := p.parse(ctx, imageURL, mimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to parse receipt with Claude: %w", err)
	}
	return r, nil
}

func (p *ClaudeParser) parse(ctx context.Context, imageURL, mimeType string) (*Receipt, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	data, err := downloadBase64(ctx, p.client, imageURL)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]any{
		"model":      p.model,
		"max_tokens": 4096,
		"messages": []map[string]any{{
			"role": "user",
			"content": []map[string]any{
				{
					"type": "image",
					"source": map[string]string{
						"type":       "base64",
						"media_type": mimeType,
						"data":       data,
					},
				},
				{"type": "text", "text": visionPrompt},
			},
		}},
	})
	if err != nil {
		return nil, err
	}

	resp, err := postJSON(ctx, p.client, p.baseURL+"/v1/messages", body, map[string]string{
		"x-api-key":         p.apiKey,
		"anthropic-version": anthropicVersion,
	})
	if err != nil {
		return nil, err
	}

	text := gjson.GetBytes(resp, `content.#(type=="text").text`)
	if !text.Exists() {
		return nil, errors.New("no text response from Claude")
	}
	v, err := decodeVision(text.String())
	if err != nil {
		return nil, err
	}
	return fromVision(v, "claude-vision", "claude", 0.95, p.now()), nil
}
