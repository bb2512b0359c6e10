// Package codec converts selections to and from the hidden field's JSON text.
// Decoding never fails: anything unusable becomes an all-blank selection.
package codec

import (
	"bytes"
	"strings"

	"hierarchicalmenu/profilefield/internal/domain"

	"github.com/goccy/go-json"
)

// Decode parses raw and projects it onto keys. Invalid JSON, non-object
// documents and blank input all yield a blank selection. Present scalar
// values are kept as strings; null, missing and nested values become "".
func Decode(raw string, keys []string) domain.Selection {
	out := domain.NewSelection(keys)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return out
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &members); err != nil {
		return out
	}

	for _, key := range keys {
		value, ok := members[key]
		if !ok {
			continue
		}
		out.Set(key, scalar(value))
	}
	return out
}

// Normalize projects an already decoded value onto keys. It accepts a
// Selection, a *Selection, a string map, a generic map or a JSON string.
func Normalize(v any, keys []string) domain.Selection {
	switch value := v.(type) {
	case nil:
		return domain.NewSelection(keys)
	case domain.Selection:
		return value.Project(keys)
	case *domain.Selection:
		if value == nil {
			return domain.NewSelection(keys)
		}
		return value.Project(keys)
	case string:
		return Decode(value, keys)
	case []byte:
		return Decode(string(value), keys)
	case map[string]string:
		out := domain.NewSelection(keys)
		for _, key := range keys {
			out.Set(key, value[key])
		}
		return out
	default:
		b, err := json.Marshal(value)
		if err != nil {
			return domain.NewSelection(keys)
		}
		return Decode(string(b), keys)
	}
}

// Encode serialises a selection. If that fails, the blank selection over the
// same keys is encoded instead; the result is always JSON or "".
func Encode(sel domain.Selection) string {
	b, err := json.Marshal(sel)
	if err == nil {
		return string(b)
	}

	b, err = json.Marshal(domain.NewSelection(sel.Keys()))
	if err != nil {
		return ""
	}
	return string(b)
}

// Blank returns the encoded all-blank selection over keys
func Blank(keys []string) string {
	return Encode(domain.NewSelection(keys))
}

func scalar(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return ""
		}
		return s
	case 'n', '{', '[':
		return ""
	default:
		// numbers and booleans keep their literal text
		return string(trimmed)
	}
}
