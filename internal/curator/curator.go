// Package curator sources top Hacker News stories, summarizes them with
// an LLM, and serves the resulting news document.
package curator

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"regexp"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kuruchy/raido/internal/hn"
	"github.com/kuruchy/raido/internal/models"
	"github.com/kuruchy/raido/internal/storage"
)

const curatorSystemPrompt = "You are a cynical, expert senior software engineer. " +
	"Analyze these Hacker News stories and write a summary for each with 3-5 technical, relevant " +
	"keypoints, in a technical but sarcastic tone. Each summary must be concise but informative. " +
	"Return ONLY valid JSON, no markdown, no explanations. Structure: " +
	`[{"title": "original title", "summary": "summary with 3-5 keypoints", "link": "url"}, ...]`

const fallbackSummary = "Summary not available"

// Example placeholder values shipped in the seed document. A document
// still carrying them means the curator has not run yet.
const (
	exampleTitle = "Example News Title"
	exampleLink  = "https://example.com"
)

type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type story struct {
	ID    int
	Title string
	URL   string
}

// Curator refreshes and loads the AI news document.
type Curator struct {
	hn      *hn.Client
	chat    chatClient
	model   string
	content storage.Provider
	path    string
	topN    int
	logger  *slog.Logger

	maxRetries int
	sleep      func(context.Context, time.Duration) error
	tmpl       *template.Template
}

func New(hnClient *hn.Client, apiKey, model string, content storage.Provider, path string, topN int, logger *slog.Logger) *Curator {
	if topN <= 0 {
		topN = 5
	}
	return &Curator{
		hn:         hnClient,
		chat:       openai.NewClient(apiKey),
		model:      model,
		content:    content,
		path:       path,
		topN:       topN,
		logger:     logger,
		maxRetries: 5,
		sleep:      sleepCtx,
		tmpl:       template.Must(template.New("news").Parse(newsTemplate)),
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

// Refresh fetches the top stories, summarizes them, and writes the news
// document. A summarization failure still writes the document, with an
// error note per story, so the site shows the story list either way.
func (c *Curator) Refresh(ctx context.Context) error {
	stories, err := c.fetchStories(ctx)
	if err != nil {
		return fmt.Errorf("curator: fetch stories: %w", err)
	}
	if len(stories) == 0 {
		return fmt.Errorf("curator: no stories available")
	}

	items, err := c.summarize(ctx, stories)
	if err != nil {
		c.logger.Error("curator: summarization failed", slog.String("error", err.Error()))
		items = make([]models.NewsItem, len(stories))
		for i, s := range stories {
			note := err.Error()
			if len(note) > 50 {
				note = note[:50]
			}
			items[i] = models.NewsItem{Title: s.Title, Summary: "Error: " + note, Link: s.URL}
		}
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("curator: marshal: %w", err)
	}
	if err := c.content.Write(c.path, data); err != nil {
		return fmt.Errorf("curator: write: %w", err)
	}
	c.logger.Info("curator: refreshed", slog.Int("stories", len(items)))
	return nil
}

func (c *Curator) fetchStories(ctx context.Context) ([]story, error) {
	ids, err := c.hn.TopStories(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) > c.topN {
		ids = ids[:c.topN]
	}
	stories := make([]story, 0, len(ids))
	for _, id := range ids {
		item, err := c.hn.Item(ctx, id)
		if err != nil {
			c.logger.Warn("curator: story fetch failed", slog.Int("id", id), slog.String("error", err.Error()))
			continue
		}
		url := item.URL
		if url == "" {
			url = fmt.Sprintf("https://news.ycombinator.com/item?id=%d", id)
		}
		stories = append(stories, story{ID: id, Title: item.Title, URL: url})
	}
	return stories, nil
}

func (c *Curator) summarize(ctx context.Context, stories []story) ([]models.NewsItem, error) {
	var sb strings.Builder
	for i, s := range stories {
		fmt.Fprintf(&sb, "%d. %s - %s\n", i+1, s.Title, s.URL)
	}
	userPrompt := "Hacker News stories:\n" + sb.String() + "\nReturn ONLY the JSON array:"

	delay := time.Second
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}
			delay = min(delay*2, time.Minute)
		}
		resp, err := c.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: curatorSystemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: userPrompt},
			},
			Temperature: 0.8,
			MaxTokens:   1500,
		})
		if err != nil {
			lastErr = err
			c.logger.Warn("curator: completion attempt failed", slog.String("error", err.Error()))
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("empty completion")
			continue
		}
		summaries, err := ParseNewsResponse(resp.Choices[0].Message.Content)
		if err != nil {
			lastErr = err
			continue
		}
		return mergeSummaries(stories, summaries), nil
	}
	return nil, lastErr
}

// mergeSummaries pairs summaries with stories positionally, falling back
// to the story's own title and link on any gap.
func mergeSummaries(stories []story, summaries []models.NewsItem) []models.NewsItem {
	out := make([]models.NewsItem, len(stories))
	for i, s := range stories {
		item := models.NewsItem{Title: s.Title, Summary: fallbackSummary, Link: s.URL}
		if i < len(summaries) {
			if summaries[i].Title != "" {
				item.Title = summaries[i].Title
			}
			if summaries[i].Summary != "" {
				item.Summary = summaries[i].Summary
			}
			if summaries[i].Link != "" {
				item.Link = summaries[i].Link
			}
		}
		out[i] = item
	}
	return out
}

var jsonArrayRe = regexp.MustCompile(`(?s)\[.*\]`)

// ParseNewsResponse extracts the news array from a model reply,
// tolerating code fences, a wrapping object, and surrounding prose.
func ParseNewsResponse(content string) ([]models.NewsItem, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = content[len("```json"):]
	} else if strings.HasPrefix(content, "```") {
		content = content[len("```"):]
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	content = strings.TrimSpace(content)

	var items []models.NewsItem
	if err := json.Unmarshal([]byte(content), &items); err == nil {
		return items, nil
	}
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &wrapper); err == nil {
		for _, raw := range wrapper {
			if err := json.Unmarshal(raw, &items); err == nil {
				return items, nil
			}
		}
	}
	if m := jsonArrayRe.FindString(content); m != "" {
		if err := json.Unmarshal([]byte(m), &items); err == nil {
			return items, nil
		}
	}
	return nil, fmt.Errorf("no valid JSON array in response")
}

const newsTemplate = `<div class="ai-news-list">{{range .}}<div class="ai-news-item">
  <h3 class="ai-news-title">{{.Title}}</h3>
  <ul class="ai-keypoints-list">{{range .Keypoints}}<li>{{.}}</li>{{end}}</ul>
  <a class="ai-news-link" href="{{.Link}}" target="_blank" rel="noopener">Read more</a>
</div>
{{end}}</div>`

const (
	waitingPlaceholder = `<p class="typing-indicator">Waiting for the first curator run...<span class="blink">_</span></p>`
	emptyNews          = `<p class="typing-indicator">No news available yet<span class="blink">_</span></p>`
	offlineNews        = `<p class="typing-indicator">Neural net offline. Check back later<span class="blink">_</span></p>`
)

type newsView struct {
	Title     string
	Keypoints []string
	Link      string
}

// Load reads the current news document. ok is false when the document is
// missing or malformed.
func (c *Curator) Load() ([]models.NewsItem, bool) {
	data, err := c.content.Read(c.path)
	if err != nil {
		return nil, false
	}
	var items []models.NewsItem
	if err := json.Unmarshal(data, &items); err != nil {
		c.logger.Warn("curator: malformed news document", slog.String("error", err.Error()))
		return nil, false
	}
	return items, true
}

// RenderNews produces the news section HTML. Missing documents render an
// offline notice, empty ones an empty notice, and documents still
// holding the seed example a waiting notice.
func (c *Curator) RenderNews() (string, error) {
	items, ok := c.Load()
	if !ok {
		return offlineNews, nil
	}
	if len(items) == 0 {
		return emptyNews, nil
	}
	if items[0].Title == exampleTitle || items[0].Link == exampleLink {
		return waitingPlaceholder, nil
	}
	views := make([]newsView, len(items))
	for i, item := range items {
		views[i] = newsView{
			Title:     item.Title,
			Keypoints: ParseKeypoints(item.Summary),
			Link:      item.Link,
		}
	}
	var sb strings.Builder
	if err := c.tmpl.Execute(&sb, views); err != nil {
		return "", fmt.Errorf("curator: render news: %w", err)
	}
	return sb.String(), nil
}
