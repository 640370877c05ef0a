package ops

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jacksmith/snip/internal/model"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// SuggestOptions controls Suggest.
type SuggestOptions struct {
	// Fuzzy ranks templates by fuzzy name match instead of substring.
	Fuzzy bool
	// Limit caps the number of results (0 = no limit).
	Limit int
}

// Suggestion is one template offered for a query.
type Suggestion struct {
	Template  model.Template
	GroupName string
	Orphan    bool
}

// Suggest returns the templates matching query, grouped like the display:
// groups by order, templates by order, orphans last under "other". An empty
// query matches everything.
//
// In substring mode a template matches when query is a case-insensitive
// substring of its name or content. In fuzzy mode the name must fuzzy-match
// query and, within a group, closer matches come first.
func (s *Session) Suggest(query string, opts SuggestOptions) []Suggestion {
	var buckets []model.Bucket
	s.view(func(d *model.StorageData) {
		buckets = d.Buckets()
	})
	return SuggestFrom(buckets, query, opts)
}

// SuggestFrom applies the Suggest matching to precomputed buckets.
func SuggestFrom(buckets []model.Bucket, query string, opts SuggestOptions) []Suggestion {
	query = strings.TrimSpace(query)
	var out []Suggestion
	for _, b := range buckets {
		var matches []model.Template
		switch {
		case query == "":
			matches = b.Templates
		case opts.Fuzzy:
			matches = fuzzyMatches(b.Templates, query)
		default:
			matches = substringMatches(b.Templates, query)
		}

		name := b.Group.DisplayName()
		if b.Orphan {
			name = model.OrphanGroupName
		}
		for _, t := range matches {
			out = append(out, Suggestion{Template: t, GroupName: name, Orphan: b.Orphan})
			if opts.Limit > 0 && len(out) == opts.Limit {
				return out
			}
		}
	}
	return out
}

func substringMatches(ts []model.Template, query string) []model.Template {
	q := strings.ToLower(query)
	var out []model.Template
	for _, t := range ts {
		if strings.Contains(strings.ToLower(t.Name), q) || strings.Contains(strings.ToLower(t.Content), q) {
			out = append(out, t)
		}
	}
	return out
}

func fuzzyMatches(ts []model.Template, query string) []model.Template {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.Name
	}
	ranks := fuzzy.RankFindFold(query, names)
	// Ties keep display order.
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})
	out := make([]model.Template, len(ranks))
	for i, r := range ranks {
		out[i] = ts[r.OriginalIndex]
	}
	return out
}

// ResolveGroup resolves a group reference: an id ("G-02", "2") or a
// case-insensitive unique name prefix.
func (s *Session) ResolveGroup(ref string) (model.Group, error) {
	groups := s.Groups()

	if id, err := model.ParseGroupID(ref); err == nil {
		for _, g := range groups {
			if g.ID == id {
				return g, nil
			}
		}
	}

	lower := strings.ToLower(strings.TrimSpace(ref))
	if lower == "" {
		return model.Group{}, fmt.Errorf("empty group reference")
	}
	var matches []model.Group
	for _, g := range groups {
		name := strings.ToLower(g.Name)
		if name == lower {
			return g, nil
		}
		if strings.HasPrefix(name, lower) {
			matches = append(matches, g)
		}
	}
	switch len(matches) {
	case 0:
		return model.Group{}, fmt.Errorf("%w: %q", model.ErrGroupNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, g := range matches {
			names[i] = g.Name
		}
		return model.Group{}, fmt.Errorf("ambiguous group %q (matches: %s)", ref, strings.Join(names, ", "))
	}
}
