package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{(\w+)\}`)

// TemplateFieldError names a placeholder that has no value.
type TemplateFieldError struct {
	Field   string
	Pattern string
}

func (e *TemplateFieldError) Error() string {
	if e.Positional() {
		n, _ := strconv.Atoi(e.Field)
		return fmt.Sprintf("template %q requires at least %d topics", e.Pattern, n+1)
	}
	return fmt.Sprintf("%q is not an available key in template %q", e.Field, e.Pattern)
}

// Positional reports whether the missing field is a topic index like {2}.
func (e *TemplateFieldError) Positional() bool {
	_, err := strconv.Atoi(e.Field)
	return err == nil
}

func (e *TemplateFieldError) Is(target error) bool {
	if e.Positional() {
		return target == ErrInsufficientTopics
	}
	return target == ErrTemplate
}

// FormatTemplate replaces {N} with topics[N] and {name} with fields[name].
// The first placeholder without a value is reported as *TemplateFieldError.
func FormatTemplate(pattern string, topics []string, fields map[string]string) (string, error) {
	var missing error
	out := placeholderPattern.ReplaceAllStringFunc(pattern, func(match string) string {
		key := match[1 : len(match)-1]
		if idx, err := strconv.Atoi(key); err == nil {
			if idx < len(topics) {
				return topics[idx]
			}
		} else if value, ok := fields[key]; ok {
			return value
		}
		if missing == nil {
			missing = &TemplateFieldError{Field: key, Pattern: pattern}
		}
		return match
	})
	return out, missing
}

// TemplatePrefix returns the part of pattern that precedes the positional
// placeholder {index}.
func TemplatePrefix(pattern string, index int) (string, bool) {
	i := strings.Index(pattern, "{"+strconv.Itoa(index)+"}")
	if i < 0 {
		return "", false
	}
	return pattern[:i], true
}

// TopicIndex parses a template key such as "{1}".
func TopicIndex(key string) (int, error) {
	trimmed := strings.TrimSpace(key)
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return 0, fmt.Errorf("%w: template key %q not recognised", ErrConfiguration, key)
	}
	idx, err := strconv.Atoi(trimmed[1 : len(trimmed)-1])
	if err != nil || idx < 0 {
		return 0, fmt.Errorf("%w: template key %q not recognised", ErrConfiguration, key)
	}
	return idx, nil
}
