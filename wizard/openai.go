package wizard

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ZamarianPatrick/lazypig-care/logger"
)

const (
	identifyPrompt = `You identify house plants from photos. Answer with a JSON object ` +
		`{"name": string, "scientificName": string, "confidence": number between 0 and 1}. ` +
		`Use the common English name.`
	carePrompt = `You write short care instructions for house plants. Answer with a JSON object ` +
		`{"wateringFrequencyDays": integer between 1 and 365, "watering": string, "light": string, ` +
		`"humidity": string, "temperature": string, "notes": string}.`
)

type OpenAIConfig struct {
	APIKey string
	Model  string // default: gpt-4o-mini

	// BaseURL overrides the API endpoint, e.g. for a proxy.
	BaseURL string
}

// OpenAIProvider asks a vision capable chat model.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	log    logger.Logger
}

func NewOpenAIProvider(cfg OpenAIConfig, log logger.Logger) *OpenAIProvider {
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		log:    log.Component("openai"),
	}
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) Identify(ctx context.Context, img Image) (Identification, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", img.ContentType, base64.StdEncoding.EncodeToString(img.Data))

	var id Identification
	err := p.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: identifyPrompt},
		{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: "Which plant is this?"},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    dataURL,
						Detail: openai.ImageURLDetailLow,
					},
				},
			},
		},
	}, &id)
	if err != nil {
		return Identification{}, err
	}

	id.Name = strings.TrimSpace(id.Name)
	if id.Name == "" {
		return Identification{}, errors.New("openai returned no plant name")
	}
	return id, nil
}

func (p *OpenAIProvider) GenerateCare(ctx context.Context, plantName string) (CareInstructions, error) {
	var care CareInstructions
	err := p.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: carePrompt},
		{Role: openai.ChatMessageRoleUser, Content: "Plant: " + plantName},
	}, &care)
	if err != nil {
		return CareInstructions{}, err
	}
	return care, nil
}

// complete runs a JSON mode chat completion and decodes the answer into out.
func (p *OpenAIProvider) complete(ctx context.Context, messages []openai.ChatCompletionMessage, out any) error {
	start := time.Now()
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: 0.2,
		MaxTokens:   500,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		p.log.Error("openai chat failed", "error", err, "duration", time.Since(start))
		return fmt.Errorf("openai chat failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return errors.New("no response from openai")
	}

	p.log.Debug("openai chat completed", "tokens", resp.Usage.TotalTokens, "duration", time.Since(start))

	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), out); err != nil {
		return fmt.Errorf("decode openai answer: %w", err)
	}
	return nil
}
