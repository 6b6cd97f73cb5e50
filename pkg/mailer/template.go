package mailer

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// template is a parsed markdown email template: YAML frontmatter metadata
// plus the markdown body.
type template struct {
	metadata map[string]any
	body     string
}

var delimiter = []byte("---")

// parseTemplate splits frontmatter from the markdown body. A file without a
// leading "---" is treated as body-only.
func parseTemplate(content []byte) (*template, error) {
	if !bytes.HasPrefix(content, delimiter) {
		return &template{metadata: map[string]any{}, body: string(content)}, nil
	}

	rest := bytes.TrimLeft(bytes.TrimPrefix(content, delimiter), "\r\n")
	end := bytes.Index(rest, delimiter)
	if end == -1 {
		return nil, fmt.Errorf("%w: closing delimiter not found", ErrInvalidFrontmatter)
	}

	metadata := map[string]any{}
	if head := bytes.TrimSpace(rest[:end]); len(head) > 0 {
		if err := yaml.Unmarshal(head, &metadata); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
		}
	}

	body := bytes.TrimLeft(rest[end+len(delimiter):], "\r\n")
	return &template{metadata: metadata, body: string(body)}, nil
}

// subject returns the Subject metadata value, or fallback when absent.
func (t *template) subject(fallback string) string {
	if s, ok := t.metadata["Subject"].(string); ok && s != "" {
		return s
	}
	return fallback
}
