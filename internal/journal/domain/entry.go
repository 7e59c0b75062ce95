package domain

import (
	"sort"
	"time"

	"voice-journal/pkg/fuzzy"
)

const CategoryGeneral = "general"

// Categories maps each journal category to the keywords that place an entry in it
var Categories = map[string][]string{
	"fitness":  {"workout", "gym", "exercise", "training", "run", "fitness", "cardio", "strength"},
	"goals":    {"goal", "achieve", "plan", "future", "want to", "aspire", "dream"},
	"ideas":    {"idea", "thought", "maybe", "could", "innovation", "concept", "brainstorm"},
	"journal":  {"today", "feeling", "happened", "day", "diary", "mood"},
	"health":   {"sleep", "diet", "nutrition", "health", "eat", "food", "meal"},
	"work":     {"project", "work", "meeting", "client", "business", "task", "deadline"},
	"learning": {"learn", "study", "course", "book", "skill", "knowledge"},
	"finance":  {"money", "budget", "invest", "expense", "save", "financial"},
}

// Entry is a journal entry the user dictated or typed
type Entry struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	UserID     string    `json:"user_id" gorm:"index;not null"`
	Text       string    `json:"text" gorm:"type:text;not null"`
	Categories []string  `json:"categories" gorm:"serializer:json;type:jsonb"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}

func (Entry) TableName() string { return "journal_entries" }

// HasCategory reports whether the entry was filed under category
func (e *Entry) HasCategory(category string) bool {
	for _, c := range e.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// IsCategory reports whether name is a known category
func IsCategory(name string) bool {
	if name == CategoryGeneral {
		return true
	}
	_, ok := Categories[name]
	return ok
}

// Categorize files text under every category with a matching keyword,
// tolerating one typo in longer keywords. Text matching nothing is general.
func Categorize(text string) []string {
	var matched []string
	for category, keywords := range Categories {
		for _, kw := range keywords {
			if fuzzy.FuzzyMatch(kw, text, keywordTolerance(kw)) {
				matched = append(matched, category)
				break
			}
		}
	}
	if len(matched) == 0 {
		return []string{CategoryGeneral}
	}
	sort.Strings(matched)
	return matched
}

// Short keywords must match exactly: "eat" is one edit from "ear" and "at".
func keywordTolerance(keyword string) int {
	if len(keyword) >= 6 {
		return 1
	}
	return 0
}

// CategoryCount is the number of entries filed under one category
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Stats summarizes a user's recent entries
type Stats struct {
	TotalEntries int             `json:"total_entries"`
	Categories   []CategoryCount `json:"categories"`
}

// Summarize counts entries per category, most used first. An entry filed
// under several categories counts toward each.
func Summarize(entries []*Entry) Stats {
	counts := make(map[string]int)
	for _, e := range entries {
		for _, c := range e.Categories {
			counts[c]++
		}
	}

	stats := Stats{TotalEntries: len(entries), Categories: make([]CategoryCount, 0, len(counts))}
	for c, n := range counts {
		stats.Categories = append(stats.Categories, CategoryCount{Category: c, Count: n})
	}
	sort.Slice(stats.Categories, func(i, j int) bool {
		a, b := stats.Categories[i], stats.Categories[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Category < b.Category
	})
	return stats
}
