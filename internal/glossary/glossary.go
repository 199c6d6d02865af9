// Package glossary provides the financial term dictionary backing the
// "용어 사전" chatbot block: exact/Korean-name lookup, naive similar-term
// search, category browse and related-term expansion.
package glossary

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/hyeon/stockpilot/pkg/logger"
)

// Term is one dictionary entry keyed by its English abbreviation
type Term struct {
	FullName       string            `json:"full_name"`
	English        string            `json:"english"`
	Category       string            `json:"category"`
	Description    string            `json:"description"`
	Formula        string            `json:"formula,omitempty"`
	Example        string            `json:"example,omitempty"`
	Interpretation map[string]string `json:"interpretation,omitempty"`
	RelatedTerms   []string          `json:"related_terms,omitempty"`
}

// Glossary is the loaded dictionary
type Glossary struct {
	terms  map[string]Term
	keys   []string // sorted, for deterministic iteration
	logger *logger.Logger
}

// Load reads the glossary JSON file. A missing file yields an empty
// glossary so the chatbot block degrades instead of failing startup.
func Load(path string, log *logger.Logger) (*Glossary, error) {
	g := &Glossary{terms: make(map[string]Term), logger: log}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.WithField("path", path).Warn("Glossary file not found, starting empty")
		return g, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read glossary: %w", err)
	}

	if err := json.Unmarshal(data, &g.terms); err != nil {
		return nil, fmt.Errorf("parse glossary: %w", err)
	}

	g.keys = make([]string, 0, len(g.terms))
	for key := range g.terms {
		g.keys = append(g.keys, key)
	}
	sort.Strings(g.keys)

	log.WithField("terms", len(g.terms)).Info("Glossary loaded")
	return g, nil
}

// LookupResult is the outcome of a term search
type LookupResult struct {
	Found   bool     `json:"found"`
	Term    string   `json:"term"`
	Data    *Term    `json:"data,omitempty"`
	Similar []string `json:"similar,omitempty"`
}

// Lookup resolves a term by abbreviation first, then by Korean full name
// (exact, then substring). Misses carry similar-term suggestions.
func (g *Glossary) Lookup(query string) LookupResult {
	upper := strings.ToUpper(query)

	if data, ok := g.terms[upper]; ok {
		return LookupResult{Found: true, Term: upper, Data: &data}
	}

	// 한글 정식 명칭 완전 일치
	for _, key := range g.keys {
		data := g.terms[key]
		if strings.ToUpper(data.FullName) == upper {
			return LookupResult{Found: true, Term: key, Data: &data}
		}
	}

	// 한글명 부분 일치
	lower := strings.ToLower(query)
	for _, key := range g.keys {
		data := g.terms[key]
		if strings.Contains(strings.ToLower(data.FullName), lower) {
			return LookupResult{Found: true, Term: key, Data: &data}
		}
	}

	return LookupResult{Found: false, Term: query, Similar: g.FindSimilar(query, 5)}
}

// FindSimilar returns up to limit terms whose key, Korean name or English
// name contains the query.
func (g *Glossary) FindSimilar(query string, limit int) []string {
	if limit <= 0 {
		limit = 5
	}
	lower := strings.ToLower(query)

	var similar []string
	for _, key := range g.keys {
		if len(similar) >= limit {
			break
		}
		data := g.terms[key]

		if strings.Contains(strings.ToLower(key), lower) {
			similar = append(similar, key)
			continue
		}
		if strings.Contains(data.FullName, query) {
			similar = append(similar, fmt.Sprintf("%s (%s)", key, data.FullName))
			continue
		}
		if strings.Contains(strings.ToLower(data.English), lower) {
			similar = append(similar, fmt.Sprintf("%s (%s)", key, data.FullName))
		}
	}

	return similar
}

// CategoryEntry is one row in a category listing
type CategoryEntry struct {
	Term        string `json:"term"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
}

// SearchByCategory lists the terms of one category with clipped descriptions
func (g *Glossary) SearchByCategory(category string) []CategoryEntry {
	var results []CategoryEntry
	for _, key := range g.keys {
		data := g.terms[key]
		if data.Category != category {
			continue
		}
		results = append(results, CategoryEntry{
			Term:        key,
			FullName:    data.FullName,
			Description: clip(data.Description, 100),
		})
	}
	return results
}

// Categories returns all distinct categories, sorted
func (g *Glossary) Categories() []string {
	seen := make(map[string]bool)
	var categories []string
	for _, key := range g.keys {
		cat := g.terms[key].Category
		if cat != "" && !seen[cat] {
			seen[cat] = true
			categories = append(categories, cat)
		}
	}
	sort.Strings(categories)
	return categories
}

// RelatedTerms expands a term's related_terms list into resolved entries
func (g *Glossary) RelatedTerms(term string) []CategoryEntry {
	result := g.Lookup(term)
	if !result.Found {
		return nil
	}

	var related []CategoryEntry
	for _, name := range result.Data.RelatedTerms {
		r := g.Lookup(name)
		if !r.Found {
			continue
		}
		related = append(related, CategoryEntry{
			Term:        r.Term,
			FullName:    r.Data.FullName,
			Description: clip(r.Data.Description, 80),
		})
	}
	return related
}

// Count returns the number of loaded terms
func (g *Glossary) Count() int {
	return len(g.terms)
}

// clip shortens a string to max runes with an ellipsis
func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
