package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/vladimiradmaev/spendeats/internal/domain"
	apperrors "github.com/vladimiradmaev/spendeats/internal/errors"
	"github.com/vladimiradmaev/spendeats/internal/logger"
)

const maxReplyLength = 1500

// generator is the part of *genai.GenerativeModel the responder uses.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiResponder answers free-form questions the static table does not cover.
type GeminiResponder struct {
	client *genai.Client
	model  generator
	menu   string
}

func NewGeminiResponder(ctx context.Context, apiKey, modelName string, catalog domain.Catalog) (*GeminiResponder, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.4)

	return &GeminiResponder{
		client: client,
		model:  model,
		menu:   describeMenu(catalog),
	}, nil
}

func (r *GeminiResponder) Respond(ctx context.Context, input string) (string, bool) {
	prompt := fmt.Sprintf(`You are the customer assistant of SpendEATS, a food ordering service.

MENU (price in Rs, calories, tags):
%s

REQUIREMENTS:
- Answer in at most three short sentences
- Only recommend dishes from the menu above
- Never promise discounts, refunds or delivery times
- For orders point the user to /add, /cart and /order
- For spending limits point the user to /limit

Customer: %s`, r.menu, input)

	resp, err := r.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		logger.WithContext(ctx).Warn("Gemini request failed", apperrors.NewExternalAPIError(err, "gemini").LogFields()...)
		return "", false
	}

	text := strings.TrimSpace(responseText(resp))
	if text == "" {
		return "", false
	}
	if len(text) > maxReplyLength {
		text = strings.ToValidUTF8(text[:maxReplyLength-3], "") + "..."
	}
	return text, true
}

func (r *GeminiResponder) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}

func describeMenu(catalog domain.Catalog) string {
	var b strings.Builder
	for _, item := range catalog.Items() {
		fmt.Fprintf(&b, "- %s: Rs%.0f, %.0f kcal, %s\n", item.Name, item.Price, item.Calories, strings.Join(item.Tags, ", "))
	}
	return b.String()
}
