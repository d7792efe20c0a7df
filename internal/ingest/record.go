package ingest

import (
	"fmt"
	"strconv"
	"strings"
)

// RawRecord is the format-agnostic row shape every source reader produces:
// a mapping from canonical field name to an untyped scalar. Keys are folded
// with FoldKey before the record leaves a reader, so downstream stages never
// see source-specific spellings.
type RawRecord map[string]any

// FoldKey canonicalizes a source field name: lower-case with spaces and
// underscores stripped. Folding an already-folded key is a no-op.
func FoldKey(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if r == ' ' || r == '_' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// fieldRenames maps folded source names to their canonical equivalents.
// Applied uniformly after folding, so each reader stays rename-agnostic.
var fieldRenames = map[string]string{
	"telephone": "phone",
	"lastname":  "surname",
}

// Set folds the key, applies canonical renames and stores the value.
func (r RawRecord) Set(name string, value any) {
	key := FoldKey(name)
	if canonical, ok := fieldRenames[key]; ok {
		key = canonical
	}
	r[key] = value
}

// String returns the trimmed string value for a folded key, if present and
// non-empty.
func (r RawRecord) String(key string) (string, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", false
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", v))
	if s == "" {
		return "", false
	}
	return s, true
}

// Int coerces the value for a folded key into an int.
func (r RawRecord) Int(key string) (int, error) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("field %q is missing", key)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("field %q: %w", key, err)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("field %q has unsupported type %T", key, v)
	}
}

// Float coerces the value for a folded key into a float64.
func (r RawRecord) Float(key string) (float64, error) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("field %q is missing", key)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("field %q: %w", key, err)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("field %q has unsupported type %T", key, v)
	}
}

// Bool coerces the value for a folded key into a bool. Accepts native bools,
// numeric 0/1 and the usual truthy strings.
func (r RawRecord) Bool(key string) (bool, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return false, false
	}
	switch b := v.(type) {
	case bool:
		return b, true
	case int:
		return b != 0, true
	case int64:
		return b != 0, true
	case float64:
		return b != 0, true
	case string:
		return parseTruthy(b)
	default:
		return false, false
	}
}

func parseTruthy(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "y", "1":
		return true, true
	case "false", "no", "n", "0":
		return false, true
	default:
		return false, false
	}
}

// optString returns a pointer to the trimmed string value, or nil when the
// field is absent or empty.
func (r RawRecord) optString(key string) *string {
	s, ok := r.String(key)
	if !ok {
		return nil
	}
	return &s
}

// optBool returns a pointer to the coerced bool value, or nil when the field
// is absent. Absence stays distinct from an explicit false until the merge
// stage materializes canonical records.
func (r RawRecord) optBool(key string) *bool {
	b, ok := r.Bool(key)
	if !ok {
		return nil
	}
	return &b
}
