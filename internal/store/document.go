package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Normalize round-trips a value through JSON so that equality checks and
// stored representations are canonical regardless of the Go type the
// caller handed in (structs become maps, ints become float64, etc).
func Normalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("normalize value: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("normalize value: %w", err)
	}
	return out, nil
}

// NormalizeDocument returns a canonical deep copy of the document
func NormalizeDocument(doc Document) (Document, error) {
	norm, err := Normalize(map[string]any(doc))
	if err != nil {
		return nil, err
	}
	if norm == nil {
		return Document{}, nil
	}
	return Document(norm.(map[string]any)), nil
}

// ValueEqual reports whether two values have the same canonical JSON
// encoding. encoding/json sorts map keys, so the comparison is
// deterministic for nested objects.
func ValueEqual(a, b any) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ja, jb)
}

// FieldValue resolves a dotted field path within a document. The second
// return is false if any path segment is missing or not a map.
func FieldValue(doc Document, path string) (any, bool) {
	parts := strings.Split(path, ".")
	var cur any = map[string]any(doc)
	for _, part := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// ApplyUpdates applies a set of field updates to a document in place.
// Dotted paths create intermediate maps as needed. This is the single
// shared patch semantics used by every backend.
func ApplyUpdates(doc Document, updates map[string]FieldUpdate) error {
	for path, update := range updates {
		if err := applyUpdate(doc, path, update); err != nil {
			return fmt.Errorf("field %q: %w", path, err)
		}
	}
	return nil
}

func applyUpdate(doc Document, path string, update FieldUpdate) error {
	parts := strings.Split(path, ".")
	m := map[string]any(doc)
	for _, part := range parts[:len(parts)-1] {
		next, ok := m[part].(map[string]any)
		if !ok {
			if existing, present := m[part]; present && existing != nil {
				return fmt.Errorf("segment %q is not a map", part)
			}
			next = map[string]any{}
			m[part] = next
		}
		m = next
	}
	field := parts[len(parts)-1]

	switch update.op {
	case opSet:
		value, err := Normalize(update.value)
		if err != nil {
			return err
		}
		m[field] = value

	case opIncrement:
		current := float64(0)
		switch v := m[field].(type) {
		case nil:
		case float64:
			current = v
		default:
			return fmt.Errorf("cannot increment non-numeric value %T", v)
		}
		m[field] = current + update.delta

	case opArrayUnion:
		value, err := Normalize(update.value)
		if err != nil {
			return err
		}
		arr, err := arrayField(m, field)
		if err != nil {
			return err
		}
		for _, el := range arr {
			if ValueEqual(el, value) {
				return nil
			}
		}
		m[field] = append(arr, value)

	case opArrayRemove:
		value, err := Normalize(update.value)
		if err != nil {
			return err
		}
		arr, err := arrayField(m, field)
		if err != nil {
			return err
		}
		kept := make([]any, 0, len(arr))
		for _, el := range arr {
			if !ValueEqual(el, value) {
				kept = append(kept, el)
			}
		}
		m[field] = kept
	}
	return nil
}

func arrayField(m map[string]any, field string) ([]any, error) {
	switch v := m[field].(type) {
	case nil:
		return []any{}, nil
	case []any:
		return v, nil
	default:
		return nil, fmt.Errorf("cannot apply array operation to %T", v)
	}
}

// MatchesFilters reports whether the document satisfies every filter
func MatchesFilters(doc Document, filters []Filter) bool {
	for _, f := range filters {
		v, ok := FieldValue(doc, f.Field)
		if !ok {
			return false
		}
		want, err := Normalize(f.Value)
		if err != nil {
			return false
		}
		if !ValueEqual(v, want) {
			return false
		}
	}
	return true
}

// SortDocuments orders documents by the query's OrderBy field. Numbers
// and strings compare natively; anything else falls back to canonical
// JSON ordering. Ties break on document id to keep results stable.
func SortDocuments(docs []Document, query Query) {
	if query.OrderBy == "" {
		sort.SliceStable(docs, func(i, j int) bool {
			return docs[i].ID() < docs[j].ID()
		})
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		vi, _ := FieldValue(docs[i], query.OrderBy)
		vj, _ := FieldValue(docs[j], query.OrderBy)
		cmp := compareValues(vi, vj)
		if cmp == 0 {
			return docs[i].ID() < docs[j].ID()
		}
		if query.Descending {
			return cmp > 0
		}
		return cmp < 0
	})
}

func compareValues(a, b any) int {
	if fa, ok := a.(float64); ok {
		if fb, ok := b.(float64); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	}
	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return strings.Compare(sa, sb)
		}
	}
	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	return bytes.Compare(ja, jb)
}
