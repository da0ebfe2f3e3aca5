package extraction

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/andy/tourbook/internal/domain"
	"github.com/sashabaranov/go-openai"
)

// Config configures the extraction client
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

// Extractor reads a tour document image into an ExtractionResult
type Extractor interface {
	Extract(ctx context.Context, image []byte) (*domain.ExtractionResult, error)
}

// chatCompleter is the slice of the OpenAI client the extractor needs
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client talks to an OpenAI-compatible vision chat endpoint
type Client struct {
	api       chatCompleter
	model     string
	maxTokens int
}

// NewClient creates an extraction client
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("extraction API key is not set")
	}
	if cfg.Model == "" {
		return nil, errors.New("extraction model is not set")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Client{
		api:       openai.NewClientWithConfig(clientConfig),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}, nil
}

// Extract sends the image and parses the model's JSON answer
func (c *Client) Extract(ctx context.Context, image []byte) (*domain.ExtractionResult, error) {
	if len(image) == 0 {
		return nil, errors.New("image is empty")
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s",
		http.DetectContentType(image),
		base64.StdEncoding.EncodeToString(image),
	)

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: instructionPrompt,
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: "Extract the tour from this document.",
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailHigh,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}
	return ParseResponse(content)
}
