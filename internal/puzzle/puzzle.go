// Package puzzle loads and renders the daily poker puzzle, independently
// of the article pipeline.
package puzzle

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"github.com/kuruchy/raido/internal/comments"
	"github.com/kuruchy/raido/internal/models"
	"github.com/kuruchy/raido/internal/storage"
)

// CardSymbol is the display form of a two-character card code.
type CardSymbol struct {
	Rank  string
	Suit  string
	Color string
}

var suitSymbols = map[byte]struct {
	symbol, color string
}{
	'h': {"♥", "red"},
	'd': {"♦", "red"},
	's': {"♠", "black"},
	'c': {"♣", "black"},
}

// GetCardSymbol decodes a card code for display. T renders as "10". An
// unrecognized suit passes through unchanged instead of failing, so a
// malformed puzzle still renders something inspectable.
func GetCardSymbol(code string) CardSymbol {
	if code == "" {
		return CardSymbol{}
	}
	rank := string(code[0])
	if rank == "T" {
		rank = "10"
	}
	if len(code) < 2 {
		return CardSymbol{Rank: rank, Suit: "", Color: "black"}
	}
	if s, ok := suitSymbols[code[1]]; ok {
		return CardSymbol{Rank: rank, Suit: s.symbol, Color: s.color}
	}
	return CardSymbol{Rank: rank, Suit: string(code[1]), Color: "black"}
}

const puzzleTemplate = `<div class="puzzle">
  <h2 class="puzzle-title">{{.Title}}</h2>
  <span class="puzzle-date">{{.Date}}</span>
  <p class="puzzle-history">{{.History}}</p>
  {{if .Board}}<div class="puzzle-board">{{range .Board}}<span class="card {{.Color}}">{{.Rank}}{{.Suit}}</span>{{end}}</div>{{end}}
  <div class="puzzle-hero">{{range .Hero}}<span class="card {{.Color}}">{{.Rank}}{{.Suit}}</span>{{end}}</div>
  <p class="puzzle-pot">Pot: {{.PotSize}}</p>
  <p class="puzzle-villain">{{.VillainAction}}</p>
  <div class="puzzle-solution" hidden>{{.Solution}}</div>
  <button class="puzzle-reveal" data-target="puzzle-solution">Show solution</button>
</div>
`

const placeholder = `<div class="puzzle puzzle-placeholder">No puzzle yet today. Check back later.</div>`

type puzzleView struct {
	Title         string
	Date          string
	History       string
	Board         []CardSymbol
	Hero          []CardSymbol
	PotSize       string
	VillainAction string
	Solution      string
}

// Loader reads the daily puzzle document and renders it.
type Loader struct {
	content storage.Provider
	path    string
	tmpl    *template.Template
	logger  *slog.Logger
}

func NewLoader(content storage.Provider, path string, logger *slog.Logger) *Loader {
	return &Loader{
		content: content,
		path:    path,
		tmpl:    template.Must(template.New("puzzle").Parse(puzzleTemplate)),
		logger:  logger,
	}
}

// Load reads and validates the puzzle document. A missing or malformed
// document is steady state, puzzles arrive on an external schedule, so
// it returns ok=false rather than an error.
func (l *Loader) Load() (models.PokerPuzzle, bool) {
	data, err := l.content.Read(l.path)
	if err != nil {
		l.logger.Info("puzzle: not available", slog.String("path", l.path))
		return models.PokerPuzzle{}, false
	}
	var p models.PokerPuzzle
	if err := json.Unmarshal(data, &p); err != nil {
		l.logger.Warn("puzzle: malformed document", slog.String("error", err.Error()))
		return models.PokerPuzzle{}, false
	}
	if err := p.Validate(); err != nil {
		l.logger.Warn("puzzle: invalid", slog.String("error", err.Error()))
		return models.PokerPuzzle{}, false
	}
	return p, true
}

// Render produces the puzzle HTML, or the fixed placeholder when no
// valid puzzle is available. The solution panel is hidden until the
// reader reveals it. ThreadID is the puzzle id verbatim; puzzle ids are
// generated URL-safe so no sanitization is applied.
func (l *Loader) Render() (html, threadID string, err error) {
	p, ok := l.Load()
	if !ok {
		return placeholder, "", nil
	}
	view := puzzleView{
		Title:         p.Title,
		Date:          p.Date(),
		History:       p.History,
		Board:         symbols(p.Board),
		Hero:          symbols(p.HeroCards),
		PotSize:       p.PotSize,
		VillainAction: p.VillainAction,
		Solution:      p.Solution,
	}
	var sb strings.Builder
	if err := l.tmpl.Execute(&sb, view); err != nil {
		return "", "", fmt.Errorf("puzzle: render: %w", err)
	}
	return sb.String(), p.ID, nil
}

// Embed renders the puzzle plus its comment thread binding.
func (l *Loader) Embed(binder *comments.Binder) (string, error) {
	html, threadID, err := l.Render()
	if err != nil {
		return "", err
	}
	if threadID == "" {
		return html, nil
	}
	return html + "\n" + binder.Embed(threadID), nil
}

func symbols(codes []string) []CardSymbol {
	out := make([]CardSymbol, len(codes))
	for i, c := range codes {
		out[i] = GetCardSymbol(c)
	}
	return out
}
