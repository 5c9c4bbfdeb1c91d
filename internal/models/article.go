// Package models defines the domain types for Raido.
package models

// Category is the resolved form of an article's category field. The
// metadata file stores it sometimes as a string and sometimes as an array;
// the normalizer resolves it once into this union so render code never
// re-inspects the raw shape.
type Category struct {
	Labels []string
}

// SingleCategory wraps one label.
func SingleCategory(label string) Category {
	if label == "" {
		return Category{}
	}
	return Category{Labels: []string{label}}
}

// MultipleCategory wraps an ordered label list, dropping empties.
func MultipleCategory(labels []string) Category {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if l != "" {
			out = append(out, l)
		}
	}
	return Category{Labels: out}
}

// Label returns the display label: the first element, or fallback when the
// category is empty.
func (c Category) Label(fallback string) string {
	if len(c.Labels) == 0 {
		return fallback
	}
	return c.Labels[0]
}

// Raw returns the text used for category matching: every label joined, or
// the empty string.
func (c Category) Raw() string {
	if len(c.Labels) == 0 {
		return ""
	}
	out := c.Labels[0]
	for _, l := range c.Labels[1:] {
		out += " " + l
	}
	return out
}

// IsZero reports whether no label is set.
func (c Category) IsZero() bool { return len(c.Labels) == 0 }

// ArticleMetadata is one normalized entry of the metadata collection.
// Filename is the stable identity of an article: URL resolution, card
// click-through, and the comments thread id all key off it.
type ArticleMetadata struct {
	Filename       string   `json:"filename"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Category       Category `json:"category"`
	Icon           string   `json:"icon"`
	Ready          bool     `json:"ready"`
	PublishedDate  string   `json:"published_date,omitempty"`
	LastEditedTime string   `json:"last_edited_time,omitempty"`
	CreatedTime    string   `json:"created_time,omitempty"`
}

// EffectiveDate returns the first non-empty of published_date,
// last_edited_time, created_time, in that priority. Empty string when no
// date is set.
func (a ArticleMetadata) EffectiveDate() string {
	switch {
	case a.PublishedDate != "":
		return a.PublishedDate
	case a.LastEditedTime != "":
		return a.LastEditedTime
	default:
		return a.CreatedTime
	}
}

// LoadedArticle is ArticleMetadata plus the rendered HTML body. It exists
// only transiently while an article page is being composed.
type LoadedArticle struct {
	ArticleMetadata
	Content string
}
