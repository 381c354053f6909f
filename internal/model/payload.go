package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field is a single key/value pair of a Payload.
type Field struct {
	Key   string
	Value any
}

// Payload is a string-keyed mapping that remembers insertion order.
// JSON decoding keeps the top-level key order of the document and decodes
// numbers as json.Number so integer literals survive untouched.
type Payload struct {
	keys   []string
	values map[string]any
}

// NewPayload builds a Payload from fields in order. Later duplicates overwrite.
func NewPayload(fields ...Field) Payload {
	var p Payload
	for _, f := range fields {
		p.Set(f.Key, f.Value)
	}
	return p
}

// Len reports the number of keys.
func (p Payload) Len() int {
	return len(p.keys)
}

// Keys returns the keys in insertion order.
func (p Payload) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Get returns the value stored under key.
func (p Payload) Get(key string) (any, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Set stores value under key. Existing keys keep their position.
func (p *Payload) Set(key string, value any) {
	if p.values == nil {
		p.values = make(map[string]any)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Delete removes key if present.
func (p *Payload) Delete(key string) {
	if _, ok := p.values[key]; !ok {
		return
	}
	delete(p.values, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i:i], p.keys[i+1:]...)
			break
		}
	}
}

// Clone returns a copy that can be mutated independently at the top level.
func (p Payload) Clone() Payload {
	out := Payload{
		keys:   make([]string, len(p.keys)),
		values: make(map[string]any, len(p.values)),
	}
	copy(out.keys, p.keys)
	for k, v := range p.values {
		out.values[k] = v
	}
	return out
}

// Fields returns the pairs in insertion order.
func (p Payload) Fields() []Field {
	out := make([]Field, 0, len(p.keys))
	for _, k := range p.keys {
		out = append(out, Field{Key: k, Value: p.values[k]})
	}
	return out
}

func (p Payload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := MarshalJSON(k)
		if err != nil {
			return nil, err
		}
		val, err := MarshalJSON(p.values[k])
		if err != nil {
			return nil, fmt.Errorf("marshal payload key %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *Payload) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	if tok == nil {
		*p = Payload{}
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decode payload: expected object, got %v", tok)
	}

	var out Payload
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("decode payload: unexpected key %v", tok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("decode payload key %q: %w", key, err)
		}
		out.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	*p = out
	return nil
}

// MarshalJSON encodes v the way a browser JSON.stringify would: no HTML
// escaping and no trailing newline.
func MarshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
