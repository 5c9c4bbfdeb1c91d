package models

import (
	"fmt"
	"strings"
)

// PokerPuzzle is the daily puzzle document. It is independent of the
// article collection and re-fetched on every load.
type PokerPuzzle struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	History       string   `json:"history"`
	HeroCards     []string `json:"hero_cards"`
	Board         []string `json:"board"`
	PotSize       string   `json:"pot_size"`
	VillainAction string   `json:"villain_action"`
	Solution      string   `json:"solution"`
}

// Date returns the puzzle date portion of the id ("poker-2024-06-01" →
// "2024-06-01").
func (p PokerPuzzle) Date() string {
	return strings.TrimPrefix(p.ID, "poker-")
}

// Validate checks the fixed schema: 2 hero cards, 0-5 board cards, all
// card codes well formed.
func (p PokerPuzzle) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("puzzle: missing id")
	}
	if len(p.HeroCards) != 2 {
		return fmt.Errorf("puzzle: want 2 hero cards, got %d", len(p.HeroCards))
	}
	if len(p.Board) > 5 {
		return fmt.Errorf("puzzle: board has %d cards, max 5", len(p.Board))
	}
	for _, c := range append(append([]string{}, p.HeroCards...), p.Board...) {
		if !ValidCardCode(c) {
			return fmt.Errorf("puzzle: invalid card code %q", c)
		}
	}
	return nil
}

// ValidCardCode reports whether code is rank+suit, rank ∈ 2-9TJQKA and
// suit ∈ hdsc.
func ValidCardCode(code string) bool {
	if len(code) != 2 {
		return false
	}
	if !strings.ContainsRune("23456789TJQKA", rune(code[0])) {
		return false
	}
	return strings.ContainsRune("hdsc", rune(code[1]))
}

// NewsItem is one entry of the AI-news document produced by the curator.
type NewsItem struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Link    string `json:"link"`
}
