package jira

import "fmt"

// Record is a raw JSON object returned by the Jira REST API.
type Record map[string]any

// FieldState distinguishes a key that was never returned by the API from a
// key the API returned with an explicit null value.
type FieldState int

const (
	NotFetched FieldState = iota
	Null
	Present
)

// Field is a single value looked up in a Record. It keeps the three-way
// distinction between a missing key, a null value, and a real value.
type Field struct {
	state FieldState
	value any
}

// Field looks up key in the record.
func (r Record) Field(key string) Field {
	v, ok := r[key]
	if !ok {
		return Field{state: NotFetched}
	}
	if v == nil {
		return Field{state: Null}
	}
	return Field{state: Present, value: v}
}

// State returns the field's presence state.
func (f Field) State() FieldState { return f.state }

// Fetched reports whether the key was part of the API response at all.
func (f Field) Fetched() bool { return f.state != NotFetched }

// Present reports whether the field holds a real (non-null) value.
func (f Field) Present() bool { return f.state == Present }

// Value returns the raw decoded value, or nil for null and not-fetched fields.
func (f Field) Value() any { return f.value }

// Str returns the field as a string, or "" when it is not a string value.
func (f Field) Str() string {
	s, _ := f.value.(string)
	return s
}

// Int returns the field as an int. JSON numbers decode as float64.
func (f Field) Int() int {
	switch v := f.value.(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// Int64 returns the field as an int64.
func (f Field) Int64() int64 {
	switch v := f.value.(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

// Bool returns the field as a bool.
func (f Field) Bool() bool {
	b, _ := f.value.(bool)
	return b
}

// Strings returns the field as a list of strings.
func (f Field) Strings() []string {
	items, ok := f.value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// AsRecord returns the field as a nested record. ok is false when the field
// is not fetched, null, or not an object.
func (f Field) AsRecord() (Record, bool) {
	switch v := f.value.(type) {
	case map[string]any:
		return Record(v), true
	case Record:
		return v, true
	}
	return nil, false
}

// Records returns the field as a list of nested records.
func (f Field) Records() []Record {
	items, ok := f.value.([]any)
	if !ok {
		return nil
	}
	out := make([]Record, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Record(m))
		}
	}
	return out
}

// Struct returns the value for machine-readable serialization. Null and
// not-fetched fields both map to nil; callers use Fetched to decide whether
// the key should appear at all.
func (f Field) Struct() any { return f.value }

// Text renders the field for human-readable output. A key the API never
// returned and a key it returned as null produce different placeholders.
func (f Field) Text() string {
	switch f.state {
	case NotFetched:
		return "<not downloaded>"
	case Null:
		return "<none>"
	}
	if s, ok := f.value.(string); ok {
		return s
	}
	return fmt.Sprint(f.value)
}

// object is the behavior shared by every wrapper type: raw field lookup and
// identity via the record's "self" URL.
type object struct {
	rec Record
}

// Raw returns the underlying record.
func (o object) Raw() Record { return o.rec }

// Field looks up a top-level key in the underlying record.
func (o object) Field(key string) Field { return o.rec.Field(key) }

// SelfURL returns the record's canonical REST URL.
func (o object) SelfURL() string { return o.rec.Field("self").Str() }

// SameAs reports whether two wrappers refer to the same remote object,
// which is the case exactly when their "self" URLs match.
func (o object) SameAs(other interface{ SelfURL() string }) bool {
	if other == nil {
		return false
	}
	return o.SelfURL() != "" && o.SelfURL() == other.SelfURL()
}
