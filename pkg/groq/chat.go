package groq

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/json-iterator/go"
	"github.com/sashabaranov/go-openai"
)

const defaultBaseURL = "https://api.groq.com/openai/v1"

type IGroq interface {
	ClassifyAnswerType(ctx context.Context, question string) (string, float64, error)
	GenerateAnswer(ctx context.Context, question string, answerContext string, answerType string) (string, error)
	SummarizeAnswer(ctx context.Context, answer string) (string, error)
}

type groqService struct {
	client *openai.Client
	model  string
}

func New() (IGroq, error) {
	apiKey := os.Getenv("GROQ_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY is required")
	}

	model := os.Getenv("GROQ_CHAT_MODEL")
	if model == "" {
		model = "llama-3.1-8b-instant"
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = os.Getenv("GROQ_BASE_URL")
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}

	return &groqService{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}, nil
}

func (g *groqService) chat(ctx context.Context, system string, user string, maxTokens int) (string, error) {
	resp, err := g.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: g.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: system},
				{Role: openai.ChatMessageRoleUser, Content: user},
			},
			MaxTokens:   maxTokens,
			Temperature: 0.2,
		},
	)
	if err != nil {
		return "", fmt.Errorf("groq API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from groq")
	}

	return resp.Choices[0].Message.Content, nil
}

type classification struct {
	AnswerType string  `json:"answer_type"`
	Confidence float64 `json:"confidence"`
}

// ClassifyAnswerType decides whether the user wants a short (1-3 sentence)
// or long structured answer. Falls back to short on any parse problem.
func (g *groqService) ClassifyAnswerType(ctx context.Context, question string) (string, float64, error) {
	prompt := "Return ONLY JSON.\n" +
		"Decide if the user wants a SHORT answer (1-3 sentences) or LONG answer.\n" +
		fmt.Sprintf("Question: %s\n\n", question) +
		`{"answer_type":"short","confidence":0.8}`

	raw, err := g.chat(ctx, "You ONLY return JSON.", prompt, 40)
	if err != nil {
		return "short", 0.8, err
	}

	var data classification
	if err := jsoniter.UnmarshalFromString(raw, &data); err != nil {
		return "short", 0.8, nil
	}

	if data.AnswerType != "long" {
		data.AnswerType = "short"
	}
	if data.Confidence == 0 {
		data.Confidence = 0.8
	}

	return data.AnswerType, data.Confidence, nil
}

func (g *groqService) GenerateAnswer(ctx context.Context, question string, answerContext string, answerType string) (string, error) {
	system := "Give a short, clear answer in 1-3 sentences."
	maxTokens := 200
	if answerType == "long" {
		system = "Give a long, structured answer with headings and bullet points."
		maxTokens = 600
	}

	prompt := fmt.Sprintf("Question: %s\n\nContext:\n%s\n\nAnswer:", question, answerContext)
	return g.chat(ctx, system, prompt, maxTokens)
}

func (g *groqService) SummarizeAnswer(ctx context.Context, answer string) (string, error) {
	prompt := fmt.Sprintf("Summarize this in 1-3 sentences:\n\n%s", answer)
	summary, err := g.chat(ctx, "Summarize clearly.", prompt, 120)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(summary), nil
}
