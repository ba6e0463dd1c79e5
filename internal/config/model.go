package config

import (
	"fmt"
	"strings"
)

// Definition is one object definition read from a source file.
type Definition struct {
	Name   string
	Source string
	Root   *Section
}

// Kind tells which payload an Entry carries.
type Kind int

const (
	KindScalar Kind = iota
	KindList
	KindSection
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "value"
	case KindList:
		return "list"
	case KindSection:
		return "section"
	default:
		return "unknown"
	}
}

// Entry is a single key of a Section.
type Entry struct {
	Key     string
	Kind    Kind
	Scalar  string
	List    []string
	Section *Section
}

// Section is an ordered key/value tree node. Keys are unique within a
// section and keep the order in which the source declared them.
type Section struct {
	path    string
	entries []*Entry
	index   map[string]int
}

// NewSection creates an empty section rooted at the given dotted key path.
func NewSection(path string) *Section {
	return &Section{path: path, index: make(map[string]int)}
}

// Path returns the dotted key path of the section.
func (s *Section) Path() string {
	return s.path
}

// KeyPath returns the dotted path of key within this section.
func (s *Section) KeyPath(key string) string {
	if s.path == "" {
		return key
	}
	return s.path + "." + key
}

func (s *Section) add(e *Entry) error {
	if _, ok := s.index[e.Key]; ok {
		return fmt.Errorf("duplicate key %q", s.KeyPath(e.Key))
	}
	s.index[e.Key] = len(s.entries)
	s.entries = append(s.entries, e)
	return nil
}

// SetScalar adds a scalar entry.
func (s *Section) SetScalar(key, value string) error {
	return s.add(&Entry{Key: key, Kind: KindScalar, Scalar: value})
}

// SetList adds a list entry.
func (s *Section) SetList(key string, values []string) error {
	return s.add(&Entry{Key: key, Kind: KindList, List: values})
}

// AddSection adds a new child section. Adding a key twice is an error.
func (s *Section) AddSection(key string) (*Section, error) {
	child := NewSection(s.KeyPath(key))
	if err := s.add(&Entry{Key: key, Kind: KindSection, Section: child}); err != nil {
		return nil, err
	}
	return child, nil
}

// EnsureSection returns the child section under key, creating it when
// missing. It fails when key already holds a non-section entry.
func (s *Section) EnsureSection(key string) (*Section, error) {
	if e, ok := s.Lookup(key); ok {
		if e.Kind != KindSection {
			return nil, fmt.Errorf("key %q is a %s, not a section", s.KeyPath(key), e.Kind)
		}
		return e.Section, nil
	}
	return s.AddSection(key)
}

// Lookup returns the entry stored under key.
func (s *Section) Lookup(key string) (*Entry, bool) {
	i, ok := s.index[key]
	if !ok {
		return nil, false
	}
	return s.entries[i], true
}

// Has reports whether key is present.
func (s *Section) Has(key string) bool {
	_, ok := s.index[key]
	return ok
}

// Keys returns the keys in declaration order.
func (s *Section) Keys() []string {
	keys := make([]string, len(s.entries))
	for i, e := range s.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns the entries in declaration order.
func (s *Section) Entries() []*Entry {
	return s.entries
}

// Len returns the number of keys.
func (s *Section) Len() int {
	return len(s.entries)
}

// Scalar returns the scalar stored under key. The boolean is false when
// the key is missing or holds a list or section.
func (s *Section) Scalar(key string) (string, bool) {
	e, ok := s.Lookup(key)
	if !ok || e.Kind != KindScalar {
		return "", false
	}
	return e.Scalar, true
}

// List returns the list stored under key. A scalar is returned as a
// one-element list.
func (s *Section) List(key string) ([]string, bool) {
	e, ok := s.Lookup(key)
	if !ok {
		return nil, false
	}
	switch e.Kind {
	case KindList:
		return e.List, true
	case KindScalar:
		return []string{e.Scalar}, true
	default:
		return nil, false
	}
}

// Child returns the child section stored under key.
func (s *Section) Child(key string) (*Section, bool) {
	e, ok := s.Lookup(key)
	if !ok || e.Kind != KindSection {
		return nil, false
	}
	return e.Section, true
}

// String renders the section in a compact, deterministic form for debugging.
func (s *Section) String() string {
	var b strings.Builder
	s.write(&b)
	return b.String()
}

func (s *Section) write(b *strings.Builder) {
	b.WriteByte('{')
	for i, e := range s.entries {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.Key)
		b.WriteString(": ")
		switch e.Kind {
		case KindScalar:
			fmt.Fprintf(b, "%q", e.Scalar)
		case KindList:
			fmt.Fprintf(b, "%q", e.List)
		case KindSection:
			e.Section.write(b)
		}
	}
	b.WriteByte('}')
}
