package utils

import (
	"encoding/json"
	"strings"
)

// EncodeTags serializes a tag list into the stored scalar form. Entries are
// trimmed; blank entries are dropped; order is preserved. An empty or nil
// list encodes as "[]".
func EncodeTags(tags []string) string {
	clean := make([]string, 0, len(tags))
	for _, t := range tags {
		if s := strings.TrimSpace(t); s != "" {
			clean = append(clean, s)
		}
	}
	b, err := json.Marshal(clean)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// DecodeTags parses the stored scalar back into a tag list. Tags are derived
// data, so decoding is total: malformed input, non-array values, and
// unusable elements all degrade to an empty or partial list instead of an
// error. Numeric elements are stringified.
func DecodeTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var parsed []any
	if err := dec.Decode(&parsed); err != nil {
		return []string{}
	}

	tags := make([]string, 0, len(parsed))
	for _, v := range parsed {
		switch t := v.(type) {
		case string:
			tags = append(tags, t)
		case json.Number:
			tags = append(tags, t.String())
		}
	}
	return tags
}
