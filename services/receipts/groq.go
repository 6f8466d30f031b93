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

const DefaultGroqModel = "llama-3.2-90b-vision-preview"

// GroqParser reads receipts with Groq's OpenAI-compatible chat completions API.
type GroqParser struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	now     func() time.Time
}

func NewGroqParser(apiKey, model, baseURL string, client *http.Client) *GroqParser {
	if model == "" {
		model = DefaultGroqModel
	}
	return &GroqParser{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		now:     time.Now,
	}
}

func (p *GroqParser) Name() string { return "Groq Llama Vision" }

func (p *GroqParser) ParseReceipt(ctx context.Context, imageURL, mimeType string) (*Receipt, error) {
	r, err := p.parse(ctx, imageURL, mimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to parse receipt with Groq: %w", err)
	}
	return r, nil
}

func (p *GroqParser) parse(ctx context.Context, imageURL, mimeType string) (*Receipt, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	data, err := downloadBase64(ctx, p.client, imageURL)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]any{
		"model": p.model,
		"messages": []map[string]any{{
			"role": "user",
			"content": []map[string]any{
				{"type": "text", "text": visionPrompt},
				{
					"type":      "image_url",
					"image_url": map[string]string{"url": fmt.Sprintf("data:%s;base64,%s", mimeType, data)},
				},
			},
		}},
		"temperature": 0.1,
		"max_tokens":  4096,
	})
	if err != nil {
		return nil, err
	}

	resp, err := postJSON(ctx, p.client, p.baseURL+"/chat/completions", body, map[string]string{
		"Authorization": "Bearer " + p.apiKey,
	})
	if err != nil {
		return nil, err
	}

	content := gjson.GetBytes(resp, "choices.0.message.content").String()
	if content == "" {
		return nil, errors.New("no response from Groq")
	}
	v, err := decodeVision(content)
	if err != nil {
		return nil, err
	}
	return fromVision(v, "groq-llama-vision", "groq", 0.9, p.now()), nil
}
