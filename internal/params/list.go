package params

import (
	"fmt"
	"reflect"
)

// DefaultName is the name of a list read from a document without a single
// wrapping key.
const DefaultName = "ANONYMOUS"

// List is an ordered collection of named entries.
type List struct {
	name    string
	keys    []string
	entries map[string]Entry
}

func NewList(name string) *List {
	if name == "" {
		name = DefaultName
	}
	return &List{name: name, entries: make(map[string]Entry)}
}

func (l *List) Name() string { return l.name }

func (l *List) SetName(name string) { l.name = name }

func (l *List) Len() int { return len(l.keys) }

// Keys returns the keys in insertion order.
func (l *List) Keys() []string {
	return append([]string(nil), l.keys...)
}

// Set stores e under key. Replacing an entry keeps its position.
func (l *List) Set(key string, e Entry) *List {
	if l.entries == nil {
		l.entries = make(map[string]Entry)
	}
	if _, ok := l.entries[key]; !ok {
		l.keys = append(l.keys, key)
	}
	if sub, ok := e.(*List); ok {
		sub.name = key
	}
	l.entries[key] = e
	return l
}

func (l *List) Get(key string) (Entry, bool) {
	e, ok := l.entries[key]
	return e, ok
}

func (l *List) Has(key string) bool {
	_, ok := l.entries[key]
	return ok
}

// Remove deletes key and reports whether it was present.
func (l *List) Remove(key string) bool {
	if _, ok := l.entries[key]; !ok {
		return false
	}
	delete(l.entries, key)
	for i, k := range l.keys {
		if k == key {
			l.keys = append(l.keys[:i], l.keys[i+1:]...)
			break
		}
	}
	return true
}

// Sublist returns the nested list stored under key, creating it when absent.
func (l *List) Sublist(key string) (*List, error) {
	e, ok := l.entries[key]
	if !ok {
		sub := NewList(key)
		l.Set(key, sub)
		return sub, nil
	}
	sub, ok := e.(*List)
	if !ok {
		return nil, fmt.Errorf("%q is %s: %w", key, TypeName(e), ErrWrongType)
	}
	return sub, nil
}

// Lookup returns the entry under key as type T.
func Lookup[T Entry](l *List, key string) (T, error) {
	var zero T
	e, ok := l.entries[key]
	if !ok {
		return zero, fmt.Errorf("%q in %q: %w", key, l.name, ErrNotFound)
	}
	v, ok := e.(T)
	if !ok {
		return zero, fmt.Errorf("%q is %s, not %s: %w", key, TypeName(e), TypeName(zero), ErrWrongType)
	}
	return v, nil
}

func (l *List) GetInt(key string) (int, error) {
	v, err := Lookup[Int](l, key)
	return int(v), err
}

// GetDouble returns a Double, widening an Int.
func (l *List) GetDouble(key string) (float64, error) {
	if v, err := Lookup[Int](l, key); err == nil {
		return float64(v), nil
	}
	v, err := Lookup[Double](l, key)
	return float64(v), err
}

func (l *List) GetString(key string) (string, error) {
	v, err := Lookup[String](l, key)
	return string(v), err
}

func (l *List) GetBool(key string) (bool, error) {
	v, err := Lookup[Bool](l, key)
	return bool(v), err
}

// SetParameters copies every entry of other into l, replacing entries with
// the same key. Nested lists present on both sides are merged.
func (l *List) SetParameters(other *List) {
	l.merge(other, true)
}

// SetParametersNotAlreadySet copies the entries of other whose keys are
// absent from l. Nested lists present on both sides are merged the same way.
func (l *List) SetParametersNotAlreadySet(other *List) {
	l.merge(other, false)
}

func (l *List) merge(other *List, overwrite bool) {
	for _, k := range other.keys {
		e := other.entries[k]
		cur, exists := l.entries[k]
		if src, ok := e.(*List); ok {
			if dst, ok := cur.(*List); ok {
				dst.merge(src, overwrite)
				continue
			}
		}
		if exists && !overwrite {
			continue
		}
		l.Set(k, cloneEntry(e))
	}
}

// Clone returns a deep copy of l.
func (l *List) Clone() *List {
	out := NewList(l.name)
	for _, k := range l.keys {
		out.Set(k, cloneEntry(l.entries[k]))
	}
	return out
}

func cloneEntry(e Entry) Entry {
	switch v := e.(type) {
	case *List:
		return v.Clone()
	case Array[int]:
		return append(Array[int](nil), v...)
	case Array[float64]:
		return append(Array[float64](nil), v...)
	case Array[string]:
		return append(Array[string](nil), v...)
	case TwoDArray[int]:
		v.Data = append([]int(nil), v.Data...)
		return v
	case TwoDArray[float64]:
		v.Data = append([]float64(nil), v.Data...)
		return v
	case TwoDArray[string]:
		v.Data = append([]string(nil), v.Data...)
		return v
	}
	return e
}

// Equal reports whether two lists hold the same keys in the same order
// with equal entries. Names of the lists themselves are not compared.
func (l *List) Equal(other *List) bool {
	if l.Len() != other.Len() {
		return false
	}
	for i, k := range l.keys {
		if other.keys[i] != k {
			return false
		}
		a, b := l.entries[k], other.entries[k]
		if sa, ok := a.(*List); ok {
			sb, ok := b.(*List)
			if !ok || !sa.Equal(sb) {
				return false
			}
			continue
		}
		if !reflect.DeepEqual(a, b) {
			return false
		}
	}
	return true
}
