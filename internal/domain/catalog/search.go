package catalog

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

type ItemKind string

const (
	KindQuiz   ItemKind = "quiz"
	KindStory  ItemKind = "story"
	KindReel   ItemKind = "reel"
	KindCenter ItemKind = "health_center"
)

type SearchResult struct {
	Kind  ItemKind `json:"kind"`
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Score int      `json:"score"`
}

type searchEntry struct {
	kind  ItemKind
	id    string
	title string
	text  string
}

type searchEntries []searchEntry

func (e searchEntries) String(i int) string { return e[i].text }
func (e searchEntries) Len() int            { return len(e) }

// Search fuzzy-matches query against titles (and city names for health
// centers) in lang, best matches first.
func (c *Catalog) Search(query, lang string, limit int) []SearchResult {
	query = strings.TrimSpace(query)
	if query == "" || limit <= 0 {
		return nil
	}

	entries := c.searchEntries(lang)
	matches := fuzzy.FindFrom(strings.ToLower(query), entries)

	results := make([]SearchResult, 0, min(limit, len(matches)))
	for _, m := range matches {
		if len(results) == limit {
			break
		}
		e := entries[m.Index]
		results = append(results, SearchResult{
			Kind:  e.kind,
			ID:    e.id,
			Title: e.title,
			Score: m.Score,
		})
	}
	return results
}

func (c *Catalog) searchEntries(lang string) searchEntries {
	entries := make(searchEntries, 0, len(c.Quizzes)+len(c.Stories)+len(c.Reels)+len(c.HealthCenters))
	add := func(kind ItemKind, id, title, extra string) {
		text := title
		if extra != "" {
			text += " " + extra
		}
		entries = append(entries, searchEntry{kind: kind, id: id, title: title, text: strings.ToLower(text)})
	}

	for _, q := range c.Quizzes {
		add(KindQuiz, q.ID, q.Title.Get(lang), "")
	}
	for _, s := range c.Stories {
		add(KindStory, s.ID, s.Title.Get(lang), "")
	}
	for _, r := range c.Reels {
		add(KindReel, r.ID, r.Title.Get(lang), strings.Join(r.Tags, " "))
	}
	for _, h := range c.HealthCenters {
		add(KindCenter, h.ID, h.Name, h.City)
	}
	return entries
}
