package relay

import (
	"context"
	"errors"

	"github.com/openai/openai-go/v3"
)

// Provider is the remote generation capability: chat completion, image
// generation and image description. Implementations are stateless; the relay
// receives one at construction, which is what lets tests substitute doubles.
type Provider interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
	DescribeImage(ctx context.Context, prompt string, imageDataURL string) (string, error)
}

type openAIProvider struct {
	client      *openai.Client
	chatModel   string
	imageModel  string
	visionModel string
}

// NewOpenAIProvider wraps an OpenAI-compatible client. GapGPT speaks the same
// protocol; the base URL is part of the client options.
func NewOpenAIProvider(client *openai.Client, chatModel, imageModel, visionModel string) Provider {
	return &openAIProvider{
		client:      client,
		chatModel:   chatModel,
		imageModel:  imageModel,
		visionModel: visionModel,
	}
}

func (p *openAIProvider) Complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: messages,
		Model:    p.chatModel,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *openAIProvider) GenerateImage(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: prompt,
		Model:  p.imageModel,
		Size:   openai.ImageGenerateParamsSize1024x1024,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Data) == 0 {
		return "", errors.New("image generation returned no data")
	}
	return resp.Data[0].URL, nil
}

func (p *openAIProvider) DescribeImage(ctx context.Context, prompt string, imageDataURL string) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(prompt),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: imageDataURL}),
			}),
		},
		Model: p.visionModel,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("vision returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
