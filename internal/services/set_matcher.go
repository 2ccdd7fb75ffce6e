package services

import (
	_ "embed"
	"slices"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/codyseavey/tcg-explorer/internal/errs"
	"github.com/codyseavey/tcg-explorer/internal/models"
)

//go:embed data/set_aliases.yaml
var defaultSetAliases []byte

const maxSuggestions = 5

type setAliasFile struct {
	Aliases map[string][]string `yaml:"aliases"`
}

// SetMatcher resolves free-form set references ("Base Set", "evs", "151")
// against the set catalog.
type SetMatcher struct {
	// alias (normalized) -> set id
	aliases map[string]string
}

// NewSetMatcher builds a matcher from the embedded alias table.
func NewSetMatcher() (*SetMatcher, error) {
	return NewSetMatcherFromYAML(defaultSetAliases)
}

// NewSetMatcherFromYAML builds a matcher from an alias table in the same
// format as data/set_aliases.yaml.
func NewSetMatcherFromYAML(data []byte) (*SetMatcher, error) {
	var file setAliasFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errs.Wrap(err, "parse set alias table")
	}
	aliases := make(map[string]string)
	for setID, names := range file.Aliases {
		for _, name := range names {
			key := normalizeSetText(name)
			if key == "" {
				continue
			}
			if existing, ok := aliases[key]; ok && existing != setID {
				return nil, errs.Newf(errs.ErrInvalidArgument, "alias %q maps to both %s and %s", name, existing, setID)
			}
			aliases[key] = strings.ToLower(setID)
		}
	}
	return &SetMatcher{aliases: aliases}, nil
}

// Match resolves query against catalog. Precedence is exact id, exact name,
// alias, then substring of the set name. When several sets match at the same
// level the most recent release wins. No match at all returns an
// *errs.AmbiguousReferenceError carrying suggestions.
func (m *SetMatcher) Match(query string, catalog []models.SetSummary) (models.SetRef, error) {
	q := normalizeSetText(query)
	if q == "" {
		return models.SetRef{}, &errs.AmbiguousReferenceError{
			Reference:   query,
			Suggestions: suggestSets(q, catalog),
		}
	}

	ref := func(set models.SetSummary) models.SetRef {
		return models.SetRef{Query: query, ID: set.ID, Name: set.Name}
	}

	for _, set := range catalog {
		if strings.EqualFold(set.ID, strings.TrimSpace(query)) {
			return ref(set), nil
		}
	}

	var exact []models.SetSummary
	for _, set := range catalog {
		if normalizeSetText(set.Name) == q {
			exact = append(exact, set)
		}
	}
	if len(exact) > 0 {
		return ref(newestSet(exact)), nil
	}

	if id, ok := m.aliases[q]; ok {
		for _, set := range catalog {
			if strings.EqualFold(set.ID, id) {
				return ref(set), nil
			}
		}
	}

	var partial []models.SetSummary
	for _, set := range catalog {
		if strings.Contains(normalizeSetText(set.Name), q) {
			partial = append(partial, set)
		}
	}
	if len(partial) > 0 {
		return ref(newestSet(partial)), nil
	}

	return models.SetRef{}, &errs.AmbiguousReferenceError{
		Reference:   query,
		Suggestions: suggestSets(q, catalog),
	}
}

// FindInText looks for a set mentioned anywhere in text, by id, name or
// alias, matching whole words only. The longest mention wins; among equally
// long mentions the most recent release wins.
func (m *SetMatcher) FindInText(text string, catalog []models.SetSummary) (models.SetRef, bool) {
	haystack := " " + normalizeSetText(text) + " "
	if strings.TrimSpace(haystack) == "" {
		return models.SetRef{}, false
	}

	byID := make(map[string]models.SetSummary, len(catalog))
	for _, set := range catalog {
		byID[strings.ToLower(set.ID)] = set
	}

	var (
		found     bool
		bestLen   int
		bestSet   models.SetSummary
		bestMatch string
	)
	consider := func(mention string, set models.SetSummary) {
		if mention == "" || !strings.Contains(haystack, " "+mention+" ") {
			return
		}
		if !found || len(mention) > bestLen ||
			(len(mention) == bestLen && set.ReleaseDate.After(bestSet.ReleaseDate)) {
			found, bestLen, bestSet, bestMatch = true, len(mention), set, mention
		}
	}

	for _, set := range catalog {
		consider(normalizeSetText(set.Name), set)
		consider(strings.ToLower(set.ID), set)
	}
	for alias, id := range m.aliases {
		if set, ok := byID[id]; ok {
			consider(alias, set)
		}
	}

	if !found {
		return models.SetRef{}, false
	}
	return models.SetRef{Query: bestMatch, ID: bestSet.ID, Name: bestSet.Name}, true
}

func newestSet(sets []models.SetSummary) models.SetSummary {
	return slices.MaxFunc(sets, func(a, b models.SetSummary) int {
		return a.ReleaseDate.Compare(b.ReleaseDate)
	})
}

// suggestSets ranks catalog names by how many words they share with the
// query, falling back to the newest releases.
func suggestSets(q string, catalog []models.SetSummary) []string {
	words := strings.Fields(q)

	type scored struct {
		set   models.SetSummary
		score int
	}
	ranked := make([]scored, 0, len(catalog))
	for _, set := range catalog {
		nameWords := strings.Fields(normalizeSetText(set.Name))
		score := 0
		for _, w := range words {
			if slices.Contains(nameWords, w) {
				score++
			}
		}
		ranked = append(ranked, scored{set: set, score: score})
	}
	slices.SortStableFunc(ranked, func(a, b scored) int {
		if a.score != b.score {
			return b.score - a.score
		}
		return b.set.ReleaseDate.Compare(a.set.ReleaseDate)
	})

	suggestions := make([]string, 0, maxSuggestions)
	for _, r := range ranked {
		if len(suggestions) == maxSuggestions {
			break
		}
		suggestions = append(suggestions, r.set.Name)
	}
	return suggestions
}

// normalizeSetText lowercases s and collapses every run of non-alphanumeric
// characters to a single space, so "Scarlet & Violet: 151" and
// "scarlet violet 151" compare equal.
func normalizeSetText(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, " ")
}
