// Package memstore implements the per-run typed value registry that backs
// implicit argument passing between steps.
//
// The store is append-only: every value produced during a run is recorded
// with a type tag, and lookups scan newest-first so the most recent value
// assignable to a requested type wins. A Store belongs to exactly one run
// and is driven from a single goroutine, so it takes no locks.
package memstore

import (
	"fmt"
	"reflect"

	"github.com/railyard/shunt/pkg/domain"
)

// Entry is one recorded value with the type tag it was registered under.
// The tag may be an interface type when the value was registered through
// AppendAs.
type Entry struct {
	Type  reflect.Type
	Value any
}

// Store is an append-only, insertion-ordered registry of typed values.
type Store struct {
	entries []Entry
	strict  bool
}

// Option configures a Store.
type Option func(*Store)

// WithStrict makes interface resolution fail when two distinct concrete
// types both satisfy the requested interface, instead of silently picking
// the most recent one.
func WithStrict() Option {
	return func(s *Store) { s.strict = true }
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append records v under its concrete runtime type.
func (s *Store) Append(v any) error {
	if v == nil {
		return fmt.Errorf("%w: cannot append untyped nil", domain.ErrNoValue)
	}
	s.entries = append(s.entries, Entry{Type: reflect.TypeOf(v), Value: v})
	return nil
}

// AppendAs records v under the declared type tag, which is typically an
// interface type the concrete value implements. This is how services are
// registered for later interface-based resolution.
func (s *Store) AppendAs(v any, as reflect.Type) error {
	if v == nil || as == nil {
		return fmt.Errorf("%w: cannot append untyped nil", domain.ErrNoValue)
	}
	ct := reflect.TypeOf(v)
	if !ct.AssignableTo(as) {
		return fmt.Errorf("value of type %s is not assignable to %s", domain.TypeName(ct), domain.TypeName(as))
	}
	s.entries = append(s.entries, Entry{Type: as, Value: v})
	return nil
}

// Resolve returns the most recently appended value assignable to want: an
// entry whose tag is exactly want, or whose concrete value implements or
// matches want. In strict mode, interface requests with more than one
// distinct concrete candidate fail with ErrAmbiguousResolution.
func (s *Store) Resolve(want reflect.Type) (any, error) {
	if want == nil {
		return nil, fmt.Errorf("%w: nil type requested", domain.ErrNoValue)
	}

	var (
		found     any
		foundType reflect.Type
		ok        bool
	)
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		if !matches(e, want) {
			continue
		}
		if !s.strict || want.Kind() != reflect.Interface {
			return e.Value, nil
		}
		ct := reflect.TypeOf(e.Value)
		if !ok {
			found, foundType, ok = e.Value, ct, true
			continue
		}
		if ct != foundType {
			return nil, fmt.Errorf("%w: %s satisfied by both %s and %s",
				domain.ErrAmbiguousResolution, domain.TypeName(want), domain.TypeName(foundType), domain.TypeName(ct))
		}
	}
	if ok {
		return found, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrNoValue, domain.TypeName(want))
}

// ResolveTuple resolves each requested type independently, preserving the
// requested order. Duplicate types within one request are rejected: there is
// no way to tell which entry belongs to which slot.
func (s *Store) ResolveTuple(wants []reflect.Type) ([]any, error) {
	seen := make(map[reflect.Type]struct{}, len(wants))
	for _, t := range wants {
		if _, dup := seen[t]; dup {
			return nil, fmt.Errorf("%w: %s", domain.ErrAmbiguousTuple, domain.TypeName(t))
		}
		seen[t] = struct{}{}
	}

	vals := make([]any, len(wants))
	for i, t := range wants {
		v, err := s.Resolve(t)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

// Len reports how many entries have been appended. Exposed for
// observability and tests; chain resolution never depends on it.
func (s *Store) Len() int { return len(s.entries) }

// Snapshot returns a copy of all entries in insertion order.
func (s *Store) Snapshot() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func matches(e Entry, want reflect.Type) bool {
	if e.Type == want {
		return true
	}
	ct := reflect.TypeOf(e.Value)
	return ct != nil && ct.AssignableTo(want)
}
