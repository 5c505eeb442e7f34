package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is a JSON object that keeps its keys in input order.
// Values stay as raw JSON so fields the pipeline does not touch are written
// back exactly as they were read.
type Document struct {
	keys   []string
	values map[string]json.RawMessage
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{values: make(map[string]json.RawMessage)}
}

// Keys returns the field names in order.
func (d *Document) Keys() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Len returns the number of fields.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

func (d *Document) Has(key string) bool {
	_, ok := d.lookup(key)
	return ok
}

// Get returns the raw JSON value stored under key.
func (d *Document) Get(key string) (json.RawMessage, bool) {
	return d.lookup(key)
}

// lookup reads key from d. A nil document, from a JSON null, has no keys.
func (d *Document) lookup(key string) (json.RawMessage, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d.values[key]
	return v, ok
}

// String returns the value under key when it is a JSON string.
func (d *Document) String(key string) (string, bool) {
	raw, ok := d.lookup(key)
	if !ok || kindOf(raw) != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// StringOr returns the string under key, or def when the key is absent or
// not a string.
func (d *Document) StringOr(key, def string) string {
	if s, ok := d.String(key); ok {
		return s
	}
	return def
}

// RawOr returns the raw value under key, or def when the key is absent.
func (d *Document) RawOr(key string, def json.RawMessage) json.RawMessage {
	if v, ok := d.lookup(key); ok {
		return v
	}
	return def
}

// Object returns the value under key decoded as a nested document.
// ok is false when the key is absent or the value is not an object.
func (d *Document) Object(key string) (*Document, bool) {
	raw, exists := d.lookup(key)
	if !exists || kindOf(raw) != '{' {
		return nil, false
	}
	child := NewDocument()
	if err := json.Unmarshal(raw, child); err != nil {
		return nil, false
	}
	return child, true
}

// SetRaw stores a raw JSON value. New keys go to the end; existing keys
// keep their position.
func (d *Document) SetRaw(key string, raw json.RawMessage) {
	if d.values == nil {
		d.values = make(map[string]json.RawMessage)
	}
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = raw
}

// Set marshals v and stores it under key.
func (d *Document) Set(key string, v any) error {
	raw, err := marshalNoEscape(v)
	if err != nil {
		return fmt.Errorf("failed to encode field %q: %w", key, err)
	}
	d.SetRaw(key, raw)
	return nil
}

// SetString stores a string value.
func (d *Document) SetString(key, value string) {
	// Strings always encode.
	_ = d.Set(key, value)
}

// Docs decodes an array of objects stored under key. A missing key or a
// null value yields an empty slice. Null elements decode to nil entries.
func (d *Document) Docs(key string) ([]*Document, error) {
	raw, ok := d.lookup(key)
	if !ok || kindOf(raw) == 'n' {
		return nil, nil
	}
	if kindOf(raw) != '[' {
		return nil, fmt.Errorf("field %q is not an array", key)
	}
	var docs []*Document
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("field %q: %w", key, err)
	}
	return docs, nil
}

// SetDocs stores docs as an array under key.
func (d *Document) SetDocs(key string, docs []*Document) error {
	if docs == nil {
		docs = []*Document{}
	}
	return d.Set(key, docs)
}

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	c := &Document{
		keys:   make([]string, len(d.keys)),
		values: make(map[string]json.RawMessage, len(d.values)),
	}
	copy(c.keys, d.keys)
	for k, v := range d.values {
		c.values[k] = append(json.RawMessage(nil), v...)
	}
	return c
}

func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshalNoEscape(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(d.values[key])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (d *Document) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	d.keys = nil
	d.values = make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		d.SetRaw(key, raw)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// kindOf reports the first significant byte of a raw value: '{', '[', '"',
// 'n' for null, 't'/'f' for booleans, or a digit/'-' for numbers.
func kindOf(raw json.RawMessage) byte {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func marshalNoEscape(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
