package exercise

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"sort"
)

// Source field names as they appear in the exercise catalogue.
const (
	KeyTitle     = "Title"
	KeyDesc      = "Desc"
	KeyType      = "Type"
	KeyBodyPart  = "BodyPart"
	KeyEquipment = "Equipment"
	KeyLevel     = "Level"

	// KeyVector is the field the file sink adds to each record.
	KeyVector = "vector"
)

var ErrInputNotFound = errors.New("input file not found")

// Record is one exercise as read from the catalogue. It is a generic object
// that remembers key order, so a rewrite keeps unknown fields where they were.
type Record struct {
	keys   []string
	values map[string]any
}

// NewRecord builds a record from fields, keys in sorted order.
func NewRecord(fields map[string]any) Record {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var r Record
	for _, k := range keys {
		r.Set(k, fields[k])
	}
	return r
}

// Get returns the raw value stored under key.
func (r Record) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Set stores v under key. New keys go last; existing keys keep their position.
func (r *Record) Set(key string, v any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

func (r *Record) Delete(key string) {
	if _, ok := r.values[key]; !ok {
		return
	}
	delete(r.values, key)
	r.keys = slices.DeleteFunc(slices.Clone(r.keys), func(k string) bool { return k == key })
}

// Keys returns the field names in document order.
func (r Record) Keys() []string { return slices.Clone(r.keys) }

// Field returns the named field as a string. Missing or null fields are "".
func (r Record) Field(key string) string {
	v, ok := r.values[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func (r Record) Title() string { return r.Field(KeyTitle) }

func (r Record) BodyPart() string { return r.Field(KeyBodyPart) }

func (r Record) Equipment() string { return r.Field(KeyEquipment) }

func (r Record) Level() string { return r.Field(KeyLevel) }

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeTo(&buf, k, ""); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := encodeTo(&buf, r.values[k], ""); err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*r = Record{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("exercise must be an object, got %v", tok)
	}
	var rec Record
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected key %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		rec.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	if rec.values == nil {
		rec.values = make(map[string]any)
	}
	*r = rec
	return nil
}

// LoadFile reads a JSON array of records. Numbers keep their textual form.
func LoadFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Decode(data)
}

// Decode parses a JSON array of records. Anything after the array is an error.
func Decode(data []byte) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var records []Record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode exercises: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode exercises: unexpected data after the array at offset %d", dec.InputOffset())
	}
	return records, nil
}

// WriteFile overwrites path with the whole array, indented by four spaces.
// Characters like & and < are written as is.
func WriteFile(path string, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	var buf bytes.Buffer
	if err := encodeTo(&buf, records, "    "); err != nil {
		return fmt.Errorf("encode exercises: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func encodeTo(buf *bytes.Buffer, v any, indent string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1) // Encode's trailing newline
	return nil
}
