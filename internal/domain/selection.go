package domain

import (
	"bytes"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Selection maps each level key to the chosen node id. An empty string means
// the level is unselected. Keys keep their level order.
type Selection struct {
	keys   []string
	values map[string]string
}

// NewSelection returns an all-blank selection over keys
func NewSelection(keys []string) Selection {
	s := Selection{
		keys:   append([]string(nil), keys...),
		values: make(map[string]string, len(keys)),
	}
	for _, key := range keys {
		s.values[key] = ""
	}
	return s
}

// SelectionOf builds a selection from ordered values; missing values stay blank
func SelectionOf(keys []string, values ...string) Selection {
	s := NewSelection(keys)
	for i, key := range keys {
		if i < len(values) {
			s.values[key] = values[i]
		}
	}
	return s
}

func (s Selection) Keys() []string {
	return append([]string(nil), s.keys...)
}

func (s Selection) Len() int {
	return len(s.keys)
}

// Get returns the id chosen for key, or "" for unknown keys
func (s Selection) Get(key string) string {
	return s.values[key]
}

// At returns the id chosen at level index i
func (s Selection) At(i int) string {
	if i < 0 || i >= len(s.keys) {
		return ""
	}
	return s.values[s.keys[i]]
}

// Has reports whether key is one of the selection's levels
func (s Selection) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Set assigns value to key. Keys outside the level set are ignored.
func (s *Selection) Set(key, value string) {
	if _, ok := s.values[key]; !ok {
		return
	}
	s.values[key] = value
}

func (s *Selection) SetAt(i int, value string) {
	if i < 0 || i >= len(s.keys) {
		return
	}
	s.values[s.keys[i]] = value
}

// Values returns the ids in level order
func (s Selection) Values() []string {
	out := make([]string, 0, len(s.keys))
	for _, key := range s.keys {
		out = append(out, s.values[key])
	}
	return out
}

// IsBlank reports whether no level is selected
func (s Selection) IsBlank() bool {
	for _, key := range s.keys {
		if s.values[key] != "" {
			return false
		}
	}
	return true
}

// Depth is the number of leading selected levels
func (s Selection) Depth() int {
	for i, key := range s.keys {
		if s.values[key] == "" {
			return i
		}
	}
	return len(s.keys)
}

func (s Selection) Clone() Selection {
	out := Selection{
		keys:   append([]string(nil), s.keys...),
		values: make(map[string]string, len(s.values)),
	}
	for k, v := range s.values {
		out.values[k] = v
	}
	return out
}

// Project returns a selection over keys carrying over the values of s for
// every key both share.
func (s Selection) Project(keys []string) Selection {
	out := NewSelection(keys)
	for _, key := range keys {
		if v, ok := s.values[key]; ok {
			out.values[key] = v
		}
	}
	return out
}

// Equal compares key order and values
func (s Selection) Equal(other Selection) bool {
	if len(s.keys) != len(other.keys) {
		return false
	}
	for i, key := range s.keys {
		if other.keys[i] != key || s.values[key] != other.values[key] {
			return false
		}
	}
	return true
}

// Map returns a plain copy of the values
func (s Selection) Map() map[string]string {
	out := make(map[string]string, len(s.keys))
	for _, key := range s.keys {
		out[key] = s.values[key]
	}
	return out
}

// MarshalJSON writes the members in level order
func (s Selection) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(s.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a flat object of scalars. Member order is not
// preserved by the decoder, so keys are ordered by their level number.
func (s *Selection) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	SortLevelKeys(keys)

	out := NewSelection(keys)
	for key, value := range raw {
		out.values[key] = scalarString(value)
	}
	*s = out
	return nil
}

// SortLevelKeys orders keys by their numeric level suffix, falling back to
// lexical order.
func SortLevelKeys(keys []string) {
	sort.SliceStable(keys, func(i, j int) bool {
		ni, okI := levelNumber(keys[i])
		nj, okJ := levelNumber(keys[j])
		switch {
		case okI && okJ:
			return ni < nj
		case okI != okJ:
			return okI
		default:
			return keys[i] < keys[j]
		}
	})
}

func levelNumber(key string) (int, bool) {
	if !strings.HasPrefix(key, LevelKeyPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(key, LevelKeyPrefix))
	if err != nil {
		return 0, false
	}
	return n, true
}
