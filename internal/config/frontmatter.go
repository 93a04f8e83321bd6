package config

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontmatterDelim = "---"

// parseFrontmatter extracts the YAML frontmatter header from a rule or
// hook declaration file and returns it decoded into T plus the free-text
// body. A file without an opening delimiter is an error here: every
// declaration file must carry a header.
func parseFrontmatter[T any](content string) (T, string, error) {
	var zero T

	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalized, frontmatterDelim+"\n") {
		return zero, "", errors.New("missing frontmatter header")
	}

	rest := normalized[len(frontmatterDelim)+1:]

	var header, body string
	if strings.HasPrefix(rest, frontmatterDelim+"\n") || rest == frontmatterDelim {
		body = strings.TrimPrefix(rest[len(frontmatterDelim):], "\n")
	} else {
		before, after, ok := strings.Cut(rest, "\n"+frontmatterDelim)
		if !ok {
			return zero, "", errors.New("unterminated frontmatter: missing closing ---")
		}
		header = before
		body = strings.TrimPrefix(after, "\n")
	}

	var result T
	if err := yaml.Unmarshal([]byte(header), &result); err != nil {
		return zero, "", fmt.Errorf("invalid frontmatter YAML: %w", err)
	}
	return result, body, nil
}
