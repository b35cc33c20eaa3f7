package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type IGemini interface {
	ClassifyAnswerType(ctx context.Context, question string) (string, float64, error)
	GenerateAnswer(ctx context.Context, question string, answerContext string, answerType string) (string, error)
	SummarizeAnswer(ctx context.Context, answer string) (string, error)
	Close()
}

type geminiClient struct {
	apiKey    string
	modelName string
	client    *genai.Client
}

func NewGeminiClient() (IGemini, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")

	modelName := os.Getenv("GEMINI_MODEL_NAME")
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &geminiClient{
		apiKey:    apiKey,
		modelName: modelName,
		client:    client,
	}, nil
}

func (g *geminiClient) generate(ctx context.Context, prompt string, maxTokens int32) (string, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.SetMaxOutputTokens(maxTokens)
	model.SetTemperature(0.2)

	res, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	if len(res.Candidates) == 0 || len(res.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no response from Gemini API")
	}

	text, ok := res.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", errors.New("unexpected response format from Gemini API")
	}

	return string(text), nil
}

func (g *geminiClient) ClassifyAnswerType(ctx context.Context, question string) (string, float64, error) {
	prompt := fmt.Sprintf(
		"Does this question want a SHORT answer (1-3 sentences) or a LONG answer? Reply with just the word short or long.\nQuestion: %s",
		question,
	)

	raw, err := g.generate(ctx, prompt, 10)
	if err != nil {
		return "short", 0.8, err
	}

	if strings.Contains(strings.ToLower(raw), "long") {
		return "long", 0.8, nil
	}
	return "short", 0.8, nil
}

func (g *geminiClient) GenerateAnswer(ctx context.Context, question string, answerContext string, answerType string) (string, error) {
	style := "Give a short, clear answer in 1-3 sentences."
	maxTokens := int32(200)
	if answerType == "long" {
		style = "Give a long, structured answer with headings and bullet points."
		maxTokens = 600
	}

	prompt := fmt.Sprintf("%s\n\nQuestion: %s\n\nContext:\n%s\n\nAnswer:", style, question, answerContext)
	return g.generate(ctx, prompt, maxTokens)
}

func (g *geminiClient) SummarizeAnswer(ctx context.Context, answer string) (string, error) {
	prompt := fmt.Sprintf("Summarize this in 1-3 sentences:\n\n%s", answer)
	summary, err := g.generate(ctx, prompt, 120)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(summary), nil
}

func (g *geminiClient) Close() {
	if g.client != nil {
		g.client.Close()
	}
}
