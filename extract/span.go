package extract

import (
	"encoding/json"
	"strings"
)

// FindObjectSpan returns the first balanced {...} span in s. Braces inside
// JSON string literals are ignored.
func FindObjectSpan(s string) (string, bool) {
	start, end, ok := nextObjectSpan(s, 0)
	if !ok {
		return "", false
	}
	return s[start:end], true
}

// nextObjectSpan returns the bounds of the first balanced object starting
// at or after from. An opening brace that is never closed is skipped and the
// scan resumes after it.
func nextObjectSpan(s string, from int) (int, int, bool) {
	for from < len(s) {
		rel := strings.IndexByte(s[from:], '{')
		if rel < 0 {
			return 0, 0, false
		}
		start := from + rel
		if end, ok := closeObject(s, start); ok {
			return start, end, true
		}
		from = start + 1
	}
	return 0, 0, false
}

// closeObject returns the index just past the brace that balances the one
// at start.
func closeObject(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

// decodeFirstObject decodes the first balanced span that parses as a JSON
// object, repairing common model formatting slips when plain decoding fails.
func decodeFirstObject(s string) (map[string]any, error) {
	var lastErr error
	found := false
	for from := 0; ; {
		start, end, ok := nextObjectSpan(s, from)
		if !ok {
			break
		}
		found = true

		m, err := decodeObject(s[start:end])
		if err == nil {
			return m, nil
		}
		lastErr = err
		from = end
	}

	if !found {
		return nil, ErrNoStructuredSpan
	}
	return nil, lastErr
}

func decodeObject(span string) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(span), &m); err == nil {
		return m, nil
	}
	if err := json.Unmarshal([]byte(repairJSON(span)), &m); err != nil {
		return nil, err
	}
	return m, nil
}
