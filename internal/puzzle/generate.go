package puzzle

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kuruchy/raido/internal/models"
	"github.com/kuruchy/raido/internal/storage"
)

const systemPrompt = "You are a high-stakes poker coach specialized in Texas Hold'em No-Limit 6-Max. " +
	"Generate an interesting, educational strategic scenario. It must be realistic and present a " +
	"complex decision requiring GTO analysis, on any street (preflop, flop, turn, or river). " +
	"Include position, stack sizes, prior action, and table context. The solution must explain the " +
	"GTO line with clear reasoning about equity, pot odds, and ranges."

const userPromptFormat = `Generate a poker puzzle for %s. Return ONLY a valid JSON object with exactly this structure:
{
  "id": "poker-YYYY-MM-DD",
  "title": "Descriptive scenario title (e.g. Hero in BB facing River Jam)",
  "hero_cards": ["Ah", "Ks"],
  "board": ["Kd", "Tc", "2s", "8h", "Qc"],
  "pot_size": "120bb",
  "villain_action": "All-in for 80bb",
  "history": "BTN opens 2.5bb, Hero 3-bets to 8bb from BB, BTN calls...",
  "solution": "Call. GTO suggests calling because Hero has enough equity against the jamming range..."
}
Use standard card codes (As, Kh, Qd, Jc) where the second character is the suit: h, d, s, or c. The board array must have 0, 3, 4, or 5 cards depending on the street.`

// chatClient is the slice of the OpenAI client the generator needs.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Generator produces a fresh daily puzzle and writes it to the content
// root, where the Loader picks it up.
type Generator struct {
	client  chatClient
	model   string
	content storage.Provider
	path    string
	logger  *slog.Logger
	now     func() time.Time

	maxRetries int
	sleep      func(context.Context, time.Duration) error
}

func NewGenerator(apiKey, model string, content storage.Provider, path string, logger *slog.Logger) *Generator {
	return &Generator{
		client:     openai.NewClient(apiKey),
		model:      model,
		content:    content,
		path:       path,
		logger:     logger,
		now:        time.Now,
		maxRetries: 5,
		sleep:      sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Generate asks the model for a puzzle for today, validates it, and
// writes it to the puzzle document. Retries transient failures with
// doubling backoff capped at a minute.
func (g *Generator) Generate(ctx context.Context) (models.PokerPuzzle, error) {
	today := g.now().UTC().Format("2006-01-02")
	id := "poker-" + today

	delay := time.Second
	var lastErr error
	for attempt := 0; attempt < g.maxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Info("puzzle: retrying generation",
				slog.Int("attempt", attempt+1),
				slog.Duration("delay", delay))
			if err := g.sleep(ctx, delay); err != nil {
				return models.PokerPuzzle{}, err
			}
			delay = min(delay*2, time.Minute)
		}

		p, err := g.generateOnce(ctx, today, id)
		if err != nil {
			lastErr = err
			g.logger.Warn("puzzle: generation attempt failed", slog.String("error", err.Error()))
			continue
		}

		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return models.PokerPuzzle{}, fmt.Errorf("puzzle: marshal: %w", err)
		}
		if err := g.content.Write(g.path, data); err != nil {
			return models.PokerPuzzle{}, fmt.Errorf("puzzle: write: %w", err)
		}
		g.logger.Info("puzzle: generated", slog.String("id", p.ID), slog.String("title", p.Title))
		return p, nil
	}
	return models.PokerPuzzle{}, fmt.Errorf("puzzle: generation failed after %d attempts: %w", g.maxRetries, lastErr)
}

func (g *Generator) generateOnce(ctx context.Context, today, id string) (models.PokerPuzzle, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(userPromptFormat, today)},
		},
		Temperature: 0.8,
		MaxTokens:   1500,
	})
	if err != nil {
		return models.PokerPuzzle{}, err
	}
	if len(resp.Choices) == 0 {
		return models.PokerPuzzle{}, fmt.Errorf("empty completion")
	}

	p, err := ParseResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return models.PokerPuzzle{}, err
	}
	// The model sometimes invents its own date; the id is ours.
	p.ID = id
	if err := p.Validate(); err != nil {
		return models.PokerPuzzle{}, err
	}
	if n := len(p.Board); n != 0 && n != 3 && n != 4 && n != 5 {
		return models.PokerPuzzle{}, fmt.Errorf("board has %d cards, want 0, 3, 4, or 5", n)
	}
	return p, nil
}

var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// ParseResponse extracts the puzzle JSON from a model reply, tolerating
// markdown code fences and surrounding prose.
func ParseResponse(content string) (models.PokerPuzzle, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = content[len("```json"):]
	} else if strings.HasPrefix(content, "```") {
		content = content[len("```"):]
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	content = strings.TrimSpace(content)

	var p models.PokerPuzzle
	if err := json.Unmarshal([]byte(content), &p); err == nil {
		return p, nil
	}
	if m := jsonObjectRe.FindString(content); m != "" {
		if err := json.Unmarshal([]byte(m), &p); err == nil {
			return p, nil
		}
	}
	return models.PokerPuzzle{}, fmt.Errorf("no valid JSON object in response")
}
