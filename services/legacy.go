package services

import (
	"strings"

	"github.com/cloudflare/ahocorasick"

	"pricelist-summary/config"
)

// legacyMatcher applies keyword rules to filenames that predate the
// canonical convention. All keywords of all rules are found in one pass.
type legacyMatcher struct {
	rules    []config.LegacyRule
	keywords []string
	matcher  *ahocorasick.Matcher
}

func newLegacyMatcher(rules []config.LegacyRule) *legacyMatcher {
	m := &legacyMatcher{rules: rules}

	seen := make(map[string]struct{})
	add := func(words []string) {
		for _, w := range words {
			w = strings.ToUpper(strings.TrimSpace(w))
			if w == "" {
				continue
			}
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			m.keywords = append(m.keywords, w)
		}
	}
	for _, r := range rules {
		add(r.Any)
		add(r.All)
		for _, mr := range r.Models {
			add(mr.Any)
			add(mr.All)
		}
	}

	if len(m.keywords) > 0 {
		m.matcher = ahocorasick.NewStringMatcher(m.keywords)
	}
	return m
}

// match returns the manufacturer and model of the first rule whose keywords
// occur in stem.
func (m *legacyMatcher) match(stem string) (manufacturer, model string, ok bool) {
	if m.matcher == nil {
		return "", "", false
	}

	present := make(map[string]bool)
	for _, i := range m.matcher.Match([]byte(strings.ToUpper(stem))) {
		present[m.keywords[i]] = true
	}
	if len(present) == 0 {
		return "", "", false
	}

	for _, r := range m.rules {
		if !keywordsMatch(present, r.Any, r.All) {
			continue
		}
		for _, mr := range r.Models {
			if keywordsMatch(present, mr.Any, mr.All) {
				return r.Manufacturer, mr.Name, true
			}
		}
		if r.DefaultModel != "" {
			return r.Manufacturer, r.DefaultModel, true
		}
	}
	return "", "", false
}

// keywordsMatch requires at least one of anyOf (when given) and every one of allOf.
func keywordsMatch(present map[string]bool, anyOf, allOf []string) bool {
	if len(anyOf) == 0 && len(allOf) == 0 {
		return false
	}
	for _, w := range allOf {
		if !present[strings.ToUpper(strings.TrimSpace(w))] {
			return false
		}
	}
	if len(anyOf) == 0 {
		return true
	}
	for _, w := range anyOf {
		if present[strings.ToUpper(strings.TrimSpace(w))] {
			return true
		}
	}
	return false
}
