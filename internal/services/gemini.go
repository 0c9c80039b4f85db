package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"fittrack-client/internal/models"
)

const coachInstruction = "You are a friendly fitness coach. Give short, practical answers about training, nutrition and recovery."

// GeminiCompleter answers completion requests with Google's Gemini models
// instead of the backend's /chat-gpt endpoint.
type GeminiCompleter struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	rateChan chan struct{} // Token bucket
}

func NewGeminiCompleter(ctx context.Context, apiKey, modelName string, concurrentReqs int) (*GeminiCompleter, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.7)
	model.SystemInstruction = genai.NewUserContent(genai.Text(coachInstruction))

	if concurrentReqs < 1 {
		concurrentReqs = 1
	}
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiCompleter{client: client, model: model, rateChan: rateChan}, nil
}

func (g *GeminiCompleter) Close() {
	g.client.Close()
}

// acquireRate blocks until a rate slot is available
func (g *GeminiCompleter) acquireRate(ctx context.Context) error {
	select {
	case <-g.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (g *GeminiCompleter) releaseRate() {
	g.rateChan <- struct{}{}
}

func (g *GeminiCompleter) Complete(ctx context.Context, req models.CompletionRequest) (*models.CompletionResponse, error) {
	history, last, err := toGeminiHistory(req.Messages)
	if err != nil {
		return nil, err
	}

	if err := g.acquireRate(ctx); err != nil {
		return nil, err
	}
	defer g.releaseRate()

	cs := g.model.StartChat()
	cs.History = history

	resp, err := cs.SendMessage(ctx, genai.Text(last))
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	out := &models.CompletionResponse{}
	if text := extractText(resp); text != "" {
		out.Choices = []models.CompletionChoice{{
			Message: &models.CompletionMessage{Role: models.RoleAssistant, Content: text},
		}}
	}
	return out, nil
}

// toGeminiHistory splits msgs into prior turns and the final user prompt.
// Gemini wants history to open with a user turn and alternate roles, so
// leading assistant turns are dropped and consecutive turns are merged.
func toGeminiHistory(msgs []models.CompletionMessage) ([]*genai.Content, string, error) {
	if len(msgs) == 0 || msgs[len(msgs)-1].Role != models.RoleUser {
		return nil, "", fmt.Errorf("completion request must end with a user message")
	}

	var history []*genai.Content
	for _, m := range msgs[:len(msgs)-1] {
		var role string
		switch m.Role {
		case models.RoleUser:
			role = "user"
		case models.RoleAssistant:
			role = "model"
		default:
			continue
		}
		if len(history) == 0 && role != "user" {
			continue
		}
		if n := len(history); n > 0 && history[n-1].Role == role {
			history[n-1].Parts = append(history[n-1].Parts, genai.Text(m.Content))
			continue
		}
		history = append(history, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Content)}})
	}

	last := msgs[len(msgs)-1].Content
	// A trailing user turn in history would make two user turns in a row.
	if n := len(history); n > 0 && history[n-1].Role == "user" {
		var prior []string
		for _, p := range history[n-1].Parts {
			if t, ok := p.(genai.Text); ok {
				prior = append(prior, string(t))
			}
		}
		history = history[:n-1]
		last = strings.Join(append(prior, last), "\n\n")
	}
	return history, last, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
