package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
)

type Client struct {
	client *openai.Client
	model  string
}

func New(apiKey, baseURL, model string) *Client {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (c *Client) SetModel(model string) {
	c.model = model
}

// ConditionDraft is one proposed trigger rule in a drafted contract.
type ConditionDraft struct {
	Type        string `json:"type"`
	Value       string `json:"value"`
	IsRecurring bool   `json:"is_recurring"`
}

// ContractDraft is the structured form of a free-text promise, shown to the
// user for confirmation before anything is stored.
type ContractDraft struct {
	Title      string           `json:"title"`
	Body       string           `json:"body"`
	Category   string           `json:"category"`
	Conditions []ConditionDraft `json:"conditions"`
	Confidence float64          `json:"confidence"`
	AIMessage  string           `json:"ai_message"`
}

const systemPromptTemplate = `You are the assistant of a promise-tracking bot. The user describes, in free
text, a promise they want to make to their future self. Convert it into a
structured contract draft.

Current time: %s

Fields:
- title: a short imperative phrasing of the promise ("Drink water before coffee")
- body: the full promise text, lightly cleaned up
- category: one of study, health, focus, relationships, finance, other
- conditions: the trigger rules implied by the text. Each condition has:
  * type: "time" (value "HH:MM", 24h), "day" (value is comma-joined full
    weekday names, e.g. "Monday,Wednesday"), "location_tag" or
    "situation_tag" (value is a short free-text tag)
  * is_recurring: false only when the user clearly means a single occasion
- confidence: 0..1, how sure you are the draft matches the user's intent
- ai_message: one friendly sentence summarizing the draft back to the user

Rules:
1. Resolve relative times ("every morning" -> a concrete HH:MM like 08:00)
   using the current time above when the user is vague, and say so in
   ai_message.
2. Never invent conditions the user did not imply. A promise with no trigger
   gets an empty conditions list.
3. Tags should be short lowercase labels ("gym", "feeling stressed").`

func getSystemPrompt() string {
	now := time.Now()
	return fmt.Sprintf(systemPromptTemplate, now.Format("2006-01-02 15:04 (Monday)"))
}

// JSON Schema for structured output
var draftSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"title": {
			"type": "string",
			"description": "Short imperative phrasing of the promise"
		},
		"body": {
			"type": "string",
			"description": "Full promise text"
		},
		"category": {
			"type": "string",
			"enum": ["study", "health", "focus", "relationships", "finance", "other"],
			"description": "Contract category"
		},
		"conditions": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"type": {
						"type": "string",
						"enum": ["time", "day", "location_tag", "situation_tag"]
					},
					"value": {
						"type": "string"
					},
					"is_recurring": {
						"type": "boolean"
					}
				},
				"required": ["type", "value", "is_recurring"],
				"additionalProperties": false
			},
			"description": "Trigger rules implied by the promise"
		},
		"confidence": {
			"type": "number",
			"minimum": 0,
			"maximum": 1,
			"description": "Confidence score between 0 and 1"
		},
		"ai_message": {
			"type": "string",
			"description": "Friendly one-sentence summary of the draft"
		}
	},
	"required": ["title", "body", "category", "conditions", "confidence"],
	"additionalProperties": false
}`)

// ParseContractDraft turns a free-text promise into a contract draft.
func (c *Client) ParseContractDraft(ctx context.Context, userMessage string) (*ContractDraft, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: getSystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userMessage,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "contract_draft",
				Schema: draftSchema,
				Strict: true,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}

	draft := &ContractDraft{}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), draft); err != nil {
		return nil, fmt.Errorf("failed to parse draft JSON: %w", err)
	}
	return draft, nil
}
