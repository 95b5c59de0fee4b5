// Package analyze produces the AI analysis payloads the recommendation
// subsystem consumes: structured extraction of client name and form type
// from bankruptcy documents.
package analyze

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"caseflow/internal/domain/models/casefile"

	"github.com/sashabaranov/go-openai"
)

const extractionSystemPrompt = `You extract structured data from Canadian insolvency documents.
Given a document title and text, respond with a JSON object with these keys
(omit a key when the information is not present):
  clientName          - the client's full name
  consumerDebtorName  - the consumer debtor's name (Form 47 only)
  formType            - "form-47" for a Form 47 / consumer proposal, "form-76" for a Form 76
  estateNumber        - the estate number
  totalAssets         - total declared assets
  totalLiabilities    - total declared liabilities
Respond with JSON only.`

// Extractor turns document text into an ExtractedInfo payload.
type Extractor interface {
	Extract(ctx context.Context, title, text string) (*casefile.ExtractedInfo, error)
}

// OpenAIExtractor implements Extractor over the OpenAI chat completion
// API. BaseURL may point at any OpenAI-compatible server.
type OpenAIExtractor struct {
	client *openai.Client
	model  string
}

// NewOpenAIExtractor creates an extractor
func NewOpenAIExtractor(apiKey, baseURL, model string) *OpenAIExtractor {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIExtractor{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Extract asks the model for a strict-JSON extraction of the document.
func (e *OpenAIExtractor) Extract(ctx context.Context, title, text string) (*casefile.ExtractedInfo, error) {
	var input strings.Builder
	input.WriteString("Title: ")
	input.WriteString(title)
	if text != "" {
		input.WriteString("\n\n")
		input.WriteString(text)
	}

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractionSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: input.String()},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("no completion choices returned")
	}

	info, err := ParseExtraction(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	return info, nil
}

// ParseExtraction decodes a model response into ExtractedInfo. The form
// type is normalized to the sentinel values the classifier recognizes;
// unrecognized form types are dropped rather than guessed.
func ParseExtraction(content string) (*casefile.ExtractedInfo, error) {
	var info casefile.ExtractedInfo
	if err := json.Unmarshal([]byte(content), &info); err != nil {
		return nil, fmt.Errorf("decode extraction: %w", err)
	}

	info.FormType = normalizeFormType(info.FormType)
	return &info, nil
}

func normalizeFormType(formType string) string {
	normalized := strings.ToLower(strings.TrimSpace(formType))
	normalized = strings.ReplaceAll(normalized, " ", "-")
	switch normalized {
	case casefile.FormTypeForm47, "47", "form47":
		return casefile.FormTypeForm47
	case casefile.FormTypeForm76, "76", "form76":
		return casefile.FormTypeForm76
	default:
		return ""
	}
}
