// Package payload provides the string-keyed dynamic value map describing one
// domain event, plus the builder functions that populate it per event
// category. Every destination template renders against a Payload.
package payload

import (
	"encoding/json"
	"sort"
	"strings"
)

// Payload is a case-insensitive string-keyed map of loosely-typed values.
// Lookups ignore key casing; the casing of the first Set wins for output.
// Values are one of: string, bool, int, int64, float64, time.Time, or a
// nested *Payload. A Payload is not safe for concurrent mutation; the
// dispatcher hands each destination its own clone.
type Payload struct {
	canon map[string]string // lowercased key -> canonical key
	vals  map[string]any    // canonical key -> value
}

// New creates an empty payload.
func New() *Payload {
	return &Payload{
		canon: make(map[string]string),
		vals:  make(map[string]any),
	}
}

// Set stores a value under key, replacing any value stored under a
// case-insensitive match of the same key.
func (p *Payload) Set(key string, value any) *Payload {
	lower := strings.ToLower(key)
	if existing, ok := p.canon[lower]; ok {
		p.vals[existing] = value
		return p
	}
	p.canon[lower] = key
	p.vals[key] = value
	return p
}

// Get returns the value stored under a case-insensitive match of key.
func (p *Payload) Get(key string) (any, bool) {
	canonical, ok := p.canon[strings.ToLower(key)]
	if !ok {
		return nil, false
	}
	v, ok := p.vals[canonical]
	return v, ok
}

// GetString returns the string stored under key, or "" when absent or not a
// string.
func (p *Payload) GetString(key string) string {
	if v, ok := p.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Has reports whether a value exists under a case-insensitive match of key.
func (p *Payload) Has(key string) bool {
	_, ok := p.canon[strings.ToLower(key)]
	return ok
}

// Delete removes the value stored under a case-insensitive match of key.
func (p *Payload) Delete(key string) {
	lower := strings.ToLower(key)
	if canonical, ok := p.canon[lower]; ok {
		delete(p.canon, lower)
		delete(p.vals, canonical)
	}
}

// Len returns the number of stored values.
func (p *Payload) Len() int { return len(p.vals) }

// Keys returns the canonical keys in sorted order.
func (p *Payload) Keys() []string {
	keys := make([]string, 0, len(p.vals))
	for k := range p.vals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a copy sharing no map state with the receiver. Nested
// payloads are cloned recursively so a destination augmenting its copy can
// never leak fields into a sibling's render.
func (p *Payload) Clone() *Payload {
	c := New()
	for lower, canonical := range p.canon {
		v := p.vals[canonical]
		if nested, ok := v.(*Payload); ok {
			v = nested.Clone()
		}
		c.canon[lower] = canonical
		c.vals[canonical] = v
	}
	return c
}

// Map returns the canonical-keyed values as a plain map. Nested payloads are
// converted recursively. Template rendering consumes this snapshot.
func (p *Payload) Map() map[string]any {
	m := make(map[string]any, len(p.vals))
	for k, v := range p.vals {
		if nested, ok := v.(*Payload); ok {
			m[k] = nested.Map()
		} else {
			m[k] = v
		}
	}
	return m
}

// JSON renders the full payload as indented JSON, the body used when an
// option bypasses its template with the send-all-properties flag.
func (p *Payload) JSON() (string, error) {
	b, err := json.MarshalIndent(p.Map(), "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
