package extraction

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/andy/tourbook/internal/domain"
)

var (
	ErrEmptyResponse    = errors.New("extraction returned an empty response")
	ErrNoJSONInResponse = errors.New("no JSON object found in extraction response")
)

const previewRunes = 200

// ParseError reports an extraction response that could not be used.
// Preview holds the start of the raw response for diagnosis.
type ParseError struct {
	Err     error
	Preview string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v (response starts with: %q)", e.Err, e.Preview)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseResponse decodes the model's text output into an ExtractionResult.
// Markdown fences and chatter around the JSON object are tolerated.
func ParseResponse(raw string) (*domain.ExtractionResult, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, &ParseError{Err: ErrEmptyResponse}
	}

	body, ok := jsonObject(trimmed)
	if !ok {
		return nil, &ParseError{Err: ErrNoJSONInResponse, Preview: preview(trimmed)}
	}

	var w wireResult
	if err := json.Unmarshal([]byte(body), &w); err != nil {
		return nil, &ParseError{
			Err:     fmt.Errorf("failed to decode extraction JSON: %w", err),
			Preview: preview(trimmed),
		}
	}
	return w.toDomain(), nil
}

// jsonObject returns the outermost {...} span of s
func jsonObject(s string) (string, bool) {
	s = stripFence(s)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.Index(s, "\n"); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSuffix(strings.TrimSpace(s), "```")
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= previewRunes {
		return s
	}
	return string(r[:previewRunes]) + "..."
}
