package core

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// HobbySeparator joins normalized hobby tokens.
const HobbySeparator = "，"

const (
	// MaxInterests bounds the interest list derived from hobby text.
	MaxInterests = 6
	// maxInterestRunes drops tokens that read like sentences rather than interests.
	maxInterestRunes = 10
)

func isHobbyDelimiter(r rune) bool {
	switch r {
	case '，', ',', '；', ';', '、':
		return true
	}
	return unicode.IsSpace(r)
}

// SplitHobbies splits hobby text on commas, semicolons, enumeration commas
// (full and half width) and whitespace. Order is preserved and empty tokens
// are dropped.
func SplitHobbies(s string) []string {
	return strings.FieldsFunc(s, isHobbyDelimiter)
}

// NormalizeHobbies deduplicates and sorts hobby tokens and rejoins them with
// HobbySeparator.
func NormalizeHobbies(s string) string {
	tokens := SplitHobbies(s)
	slices.Sort(tokens)
	tokens = slices.Compact(tokens)
	return strings.Join(tokens, HobbySeparator)
}

// NormalizeInterests removes composite interests such as "游泳读书" when their
// parts were already kept. Items are visited shortest first; an item is
// dropped when it contains a kept item different from itself. Survivors keep
// their original relative order.
func NormalizeInterests(interests []string) []string {
	if len(interests) == 0 {
		return nil
	}

	order := make([]int, len(interests))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return utf8.RuneCountInString(interests[a]) - utf8.RuneCountInString(interests[b])
	})

	keep := make([]bool, len(interests))
	var kept []string
	for _, idx := range order {
		candidate := interests[idx]
		composite := false
		for _, existing := range kept {
			if existing != candidate && strings.Contains(candidate, existing) {
				composite = true
				break
			}
		}
		if !composite {
			keep[idx] = true
			kept = append(kept, candidate)
		}
	}

	out := make([]string, 0, len(kept))
	for i, item := range interests {
		if keep[i] {
			out = append(out, item)
		}
	}
	return out
}

// ExtractInterests derives a bounded interest list from raw hobby text: the
// first MaxInterests tokens, minus overly long ones, with composites removed.
func ExtractInterests(hobbies string) []string {
	tokens := SplitHobbies(hobbies)
	if len(tokens) > MaxInterests {
		tokens = tokens[:MaxInterests]
	}
	short := tokens[:0]
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) < maxInterestRunes {
			short = append(short, tok)
		}
	}
	return NormalizeInterests(short)
}
