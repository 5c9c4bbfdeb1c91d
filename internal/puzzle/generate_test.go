package puzzle

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kuruchy/raido/internal/storage"
)

type fakeChat struct {
	replies []string
	errs    []error
	calls   int
}

func (f *fakeChat) CreateChatCompletion(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return openai.ChatCompletionResponse{}, f.errs[i]
	}
	reply := f.replies[min(i, len(f.replies)-1)]
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: reply}}},
	}, nil
}

func testGenerator(t *testing.T, chat *fakeChat) (*Generator, storage.Provider) {
	t.Helper()
	fs, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	g := NewGenerator("test-key", "gpt-4o-mini", fs, "daily_poker.json", logger)
	g.client = chat
	g.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	g.sleep = func(context.Context, time.Duration) error { return nil }
	return g, fs
}

func TestParseResponse_Fenced(t *testing.T) {
	for _, wrap := range []string{"```json\n%s\n```", "```\n%s\n```", "%s", "Here you go:\n%s\nEnjoy."} {
		content := fmt.Sprintf(wrap, validPuzzle)
		p, err := ParseResponse(content)
		if err != nil {
			t.Errorf("ParseResponse(%q...) error: %v", content[:20], err)
			continue
		}
		if p.Title != "Hero in BB facing River Jam" {
			t.Errorf("title = %q", p.Title)
		}
	}
}

func TestParseResponse_NoJSON(t *testing.T) {
	if _, err := ParseResponse("sorry, I cannot do that"); err == nil {
		t.Error("expected error for JSON-free reply")
	}
}

func TestGenerate_WritesDocumentWithForcedID(t *testing.T) {
	chat := &fakeChat{replies: []string{"```json\n" + validPuzzle + "\n```"}}
	g, fs := testGenerator(t, chat)
	p, err := g.Generate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if p.ID != "poker-2024-06-01" {
		t.Errorf("id = %q, want generator-stamped id", p.ID)
	}
	data, err := fs.Read("daily_poker.json")
	if err != nil {
		t.Fatalf("document not written: %v", err)
	}
	var stored map[string]any
	if err := json.Unmarshal(data, &stored); err != nil {
		t.Fatalf("stored document not JSON: %v", err)
	}
	if stored["id"] != "poker-2024-06-01" {
		t.Errorf("stored id = %v", stored["id"])
	}
}

func TestGenerate_RetriesTransientFailures(t *testing.T) {
	chat := &fakeChat{
		errs:    []error{fmt.Errorf("rate limited"), nil},
		replies: []string{"", validPuzzle},
	}
	g, _ := testGenerator(t, chat)
	if _, err := g.Generate(context.Background()); err != nil {
		t.Fatalf("retry should recover: %v", err)
	}
	if chat.calls != 2 {
		t.Errorf("calls = %d, want 2", chat.calls)
	}
}

func TestGenerate_RejectsTwoCardBoard(t *testing.T) {
	bad := `{"id":"x","title":"t","history":"h","hero_cards":["Ah","Ks"],"board":["Kd","Tc"],"pot_size":"1bb","villain_action":"check","solution":"fold"}`
	chat := &fakeChat{replies: []string{bad}}
	g, _ := testGenerator(t, chat)
	if _, err := g.Generate(context.Background()); err == nil {
		t.Error("two-card board should be rejected")
	}
}

func TestGenerate_GivesUpAfterMaxRetries(t *testing.T) {
	chat := &fakeChat{replies: []string{"not json at all"}}
	g, _ := testGenerator(t, chat)
	if _, err := g.Generate(context.Background()); err == nil {
		t.Error("expected terminal error")
	}
	if chat.calls != g.maxRetries {
		t.Errorf("calls = %d, want %d", chat.calls, g.maxRetries)
	}
}
