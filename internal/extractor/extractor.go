// Package extractor isolates the JSON payload embedded in free-text
// generative model output and parses it into raw candidate records.
package extractor

import (
	"encoding/json"
	"fmt"
	"strings"
)

// snippetLen caps how much raw text an ExtractionError carries.
const snippetLen = 160

// ExtractionError reports an unparseable generative response. It is
// recoverable: callers treat it as zero candidates, never as a request
// failure.
type ExtractionError struct {
	RawLen  int
	Snippet string
	Err     error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extractor: no JSON payload in %d chars (head: %q): %v", e.RawLen, e.Snippet, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Extract strips markdown fencing and surrounding prose from raw model
// output and parses the embedded JSON. A top-level array yields one
// candidate per element; a top-level object yields a single candidate.
// Candidates are raw key-value maps; field validation happens downstream.
func Extract(raw string) ([]map[string]any, error) {
	text := clean(raw)

	fail := func(err error) *ExtractionError {
		return &ExtractionError{RawLen: len(raw), Snippet: head(raw), Err: err}
	}

	if text == "" {
		return nil, fail(fmt.Errorf("empty response"))
	}

	switch text[0] {
	case '[':
		var items []map[string]any
		if err := json.Unmarshal([]byte(text), &items); err != nil {
			return nil, fail(err)
		}
		return items, nil
	case '{':
		var item map[string]any
		if err := json.Unmarshal([]byte(text), &item); err != nil {
			return nil, fail(err)
		}
		return []map[string]any{item}, nil
	default:
		return nil, fail(fmt.Errorf("no JSON delimiter"))
	}
}

// clean strips markdown code fences, then falls back to scanning for the
// first balanced bracketed substring when prose surrounds the payload.
func clean(text string) string {
	text = strings.TrimSpace(text)

	// Strip markdown code fences, with or without a language tag.
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	} else if start := strings.Index(text, "```"); start >= 0 {
		// Fenced block embedded in leading prose.
		inner := text[start+3:]
		inner = strings.TrimPrefix(inner, "json")
		if end := strings.Index(inner, "```"); end >= 0 {
			text = strings.TrimSpace(inner[:end])
		}
	}

	if len(text) > 0 && (text[0] == '[' || text[0] == '{') {
		return text
	}
	return balancedSlice(text)
}

// balancedSlice returns the first bracket-balanced JSON-looking substring,
// or "" when none exists. String literals are honored so brackets inside
// quoted values don't end the scan early.
func balancedSlice(text string) string {
	start := -1
	var open, close byte
	for i := 0; i < len(text); i++ {
		if text[i] == '[' || text[i] == '{' {
			start = i
			open = text[i]
			if open == '[' {
				close = ']'
			} else {
				close = '}'
			}
			break
		}
	}
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

func head(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) > snippetLen {
		s = s[:snippetLen]
	}
	return s
}
