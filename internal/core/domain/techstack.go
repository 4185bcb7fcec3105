package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// TechStack is a list of technologies. The backend sends it either as a JSON
// array, as a string holding a JSON-encoded array, as a comma separated
// string, or as null; all forms decode into the same slice.
type TechStack []string

func (t *TechStack) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = nil
		return nil
	}

	switch data[0] {
	case '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("tech stack: %w", err)
		}
		*t = clean(items)
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("tech stack: %w", err)
		}
		return t.parseString(s)
	}
	return fmt.Errorf("tech stack: unexpected JSON %q", data)
}

func (t *TechStack) parseString(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*t = nil
		return nil
	}
	if strings.HasPrefix(s, "[") {
		var items []string
		if err := json.Unmarshal([]byte(s), &items); err != nil {
			return fmt.Errorf("tech stack: encoded array: %w", err)
		}
		*t = clean(items)
		return nil
	}
	*t = clean(strings.Split(s, ","))
	return nil
}

func clean(items []string) TechStack {
	out := make(TechStack, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
