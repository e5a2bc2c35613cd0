package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/aws/smithy-go/auth/bearer"
)

const bedrockDefaultMaxTokens = int32(512)

// BedrockService implements SummarizerService with the Bedrock Converse API
type BedrockService struct {
	client        *bedrockruntime.Client
	modelID       string
	maxTokens     int32
	systemPrompt  string
	maxInputChars int
}

// NewBedrockService authenticates with a Bedrock API key as bearer token
func NewBedrockService(ctx context.Context, cfg Config) (*BedrockService, error) {
	if cfg.BedrockModel == "" {
		return nil, fmt.Errorf("bedrock model ID is required")
	}
	if cfg.BedrockAPIKey == "" {
		return nil, fmt.Errorf("bedrock bearer token is required")
	}
	if cfg.BedrockRegion == "" {
		return nil, fmt.Errorf("bedrock region is required")
	}

	systemPrompt := cfg.SystemInstruction
	if systemPrompt == "" {
		systemPrompt = DefaultSystemInstruction
	}
	maxTokens := bedrockDefaultMaxTokens
	if cfg.MaxTokens > 0 {
		maxTokens = int32(cfg.MaxTokens)
	}

	sdkConfig, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.BedrockRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	sdkConfig.BearerAuthTokenProvider = bearer.NewTokenCache(bearer.StaticTokenProvider{
		Token: bearer.Token{Value: cfg.BedrockAPIKey},
	})
	sdkConfig.AuthSchemePreference = []string{"httpBearerAuth"}

	return &BedrockService{
		client:        bedrockruntime.NewFromConfig(sdkConfig),
		modelID:       cfg.BedrockModel,
		maxTokens:     maxTokens,
		systemPrompt:  systemPrompt,
		maxInputChars: cfg.MaxInputChars,
	}, nil
}

func (b *BedrockService) Name() string { return string(ProviderBedrock) }

func (b *BedrockService) Summarize(ctx context.Context, title, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}

	input := b.buildConverseInput(buildUserPrompt(title, truncate(text, b.maxInputChars)))
	resp, err := b.client.Converse(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to invoke bedrock model: %w", err)
	}
	return parseConverseOutput(resp)
}

func (b *BedrockService) buildConverseInput(prompt string) *bedrockruntime.ConverseInput {
	return &bedrockruntime.ConverseInput{
		ModelId: aws.String(b.modelID),
		Messages: []types.Message{
			{
				Role: types.ConversationRoleUser,
				Content: []types.ContentBlock{
					&types.ContentBlockMemberText{Value: prompt},
				},
			},
		},
		System: []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: b.systemPrompt},
		},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(b.maxTokens),
			Temperature: aws.Float32(0.3),
			TopP:        aws.Float32(0.9),
		},
	}
}

// parseConverseOutput joins the text blocks of a Converse reply
func parseConverseOutput(resp *bedrockruntime.ConverseOutput) (string, error) {
	messageOutput, ok := resp.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return "", fmt.Errorf("unexpected bedrock response output type: %T", resp.Output)
	}
	if len(messageOutput.Value.Content) == 0 {
		return "", fmt.Errorf("no content in bedrock response")
	}

	var builder strings.Builder
	for _, block := range messageOutput.Value.Content {
		textBlock, ok := block.(*types.ContentBlockMemberText)
		if !ok {
			continue
		}
		text := strings.TrimSpace(textBlock.Value)
		if text == "" {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteByte(' ')
		}
		builder.WriteString(text)
	}

	summary := builder.String()
	if summary == "" {
		return "", fmt.Errorf("empty summary in bedrock response")
	}
	return summary, nil
}
