package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed reports model output that holds no decodable JSON.
var ErrParseFailed = errors.New("failed to parse response")

var fence = regexp.MustCompile("(?s)```[a-zA-Z]*[ \\t]*\\n?(.*?)```")

// excerptLen bounds how much of a rejected response is echoed in errors.
const excerptLen = 120

// Parse decodes model output into a new T. See ParseInto.
func Parse[T any](content string) (T, error) {
	var v T
	if err := ParseInto(content, &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// ParseInto decodes model output into target. It tries, in order: the whole
// trimmed text, the body of each markdown fence, and the span from the first
// opening brace or bracket to the last closing one.
func ParseInto(content string, target any) error {
	content = strings.TrimSpace(content)

	for _, candidate := range candidates(content) {
		if json.Unmarshal([]byte(candidate), target) == nil {
			return nil
		}
	}

	return fmt.Errorf("%w: %q", ErrParseFailed, excerpt(content))
}

func candidates(content string) []string {
	out := []string{content}
	for _, m := range fence.FindAllStringSubmatch(content, -1) {
		out = append(out, strings.TrimSpace(m[1]))
	}
	if span, ok := outerSpan(content); ok {
		out = append(out, span)
	}
	return out
}

func outerSpan(s string) (string, bool) {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", false
	}
	closer := "}"
	if s[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(s, closer)
	if end <= start {
		return "", false
	}
	return s[start : end+1], true
}

func excerpt(s string) string {
	if len(s) <= excerptLen {
		return s
	}
	return s[:excerptLen] + "..."
}
