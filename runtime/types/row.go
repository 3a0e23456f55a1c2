package types

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Key addresses a row entry either by column name or by column index.
type Key struct {
	name  string
	index int
	named bool
}

// Name returns a key for a column name.
func Name(name string) Key {
	return Key{name: name, named: true}
}

// Index returns a key for a zero-based column index.
func Index(i int) Key {
	return Key{index: i}
}

// IsName reports whether the key is a column name.
func (k Key) IsName() bool { return k.named }

// Name returns the column name, or "" for index keys.
func (k Key) Name() string { return k.name }

// Index returns the column index, or -1 for name keys.
func (k Key) Index() int {
	if k.named {
		return -1
	}
	return k.index
}

func (k Key) String() string {
	if k.named {
		return k.name
	}
	return strconv.Itoa(k.index)
}

// Row is an ordered record whose entries are keyed by name, by index or both.
// Setting an existing key overwrites its value and keeps its position.
type Row struct {
	keys []Key
	vals []any
	pos  map[Key]int
}

// NewRow creates an empty row with room for n entries.
func NewRow(n int) *Row {
	return &Row{
		keys: make([]Key, 0, n),
		vals: make([]any, 0, n),
		pos:  make(map[Key]int, n),
	}
}

// Set stores v under k.
func (r *Row) Set(k Key, v any) {
	if r.pos == nil {
		r.pos = make(map[Key]int)
	}
	if i, ok := r.pos[k]; ok {
		r.vals[i] = v
		return
	}
	r.pos[k] = len(r.keys)
	r.keys = append(r.keys, k)
	r.vals = append(r.vals, v)
}

// Lookup returns the value stored under k.
func (r *Row) Lookup(k Key) (any, bool) {
	i, ok := r.pos[k]
	if !ok {
		return nil, false
	}
	return r.vals[i], true
}

// Get returns the value stored under a column name.
func (r *Row) Get(name string) (any, bool) {
	return r.Lookup(Name(name))
}

// At returns the value stored under a column index.
func (r *Row) At(i int) (any, bool) {
	return r.Lookup(Index(i))
}

// Keys returns the keys in insertion order.
func (r *Row) Keys() []Key {
	return append([]Key(nil), r.keys...)
}

// Values returns the values in insertion order.
func (r *Row) Values() []any {
	return append([]any(nil), r.vals...)
}

// Len returns the number of entries.
func (r *Row) Len() int {
	return len(r.keys)
}

// Map returns the named entries.
func (r *Row) Map() map[string]any {
	m := make(map[string]any, len(r.keys))
	for i, k := range r.keys {
		if k.named {
			m[k.name] = r.vals[i]
		}
	}
	return m
}

// Slice returns the indexed entries ordered by index. Missing indexes are nil.
func (r *Row) Slice() []any {
	n := 0
	for _, k := range r.keys {
		if !k.named && k.index+1 > n {
			n = k.index + 1
		}
	}
	out := make([]any, n)
	for i, k := range r.keys {
		if !k.named {
			out[k.index] = r.vals[i]
		}
	}
	return out
}

// MarshalJSON encodes the row as a JSON object in insertion order.
func (r *Row) MarshalJSON() ([]byte, error) {
	return marshalOrdered(r.keys, r.vals)
}

func marshalOrdered(keys []Key, vals []any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(k.String())
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		v, err := json.Marshal(vals[i])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
