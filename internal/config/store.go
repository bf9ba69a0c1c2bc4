// Package config is the runtime knob store every keyword reads. Entries are typed,
// validated on write, and addressed by a forgiving name ("Default Timeout",
// "default_timeout" and "DEFAULTTIMEOUT" are the same entry).
package config

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/search"
)

type entry struct {
	definition
	value any
}

// Watcher is notified with the new value after a set or reset.
type Watcher func(value any)

type Store struct {
	mu       sync.RWMutex
	entries  map[string]*entry
	watchers map[string][]Watcher
	// caseHooked keeps ContainingTextMatch following CaseInsensitive until the template is set by hand.
	caseHooked bool
}

func New() *Store {
	s := &Store{
		entries:    make(map[string]*entry),
		watchers:   make(map[string][]Watcher),
		caseHooked: true,
	}
	for _, d := range definitions() {
		v, err := d.validate(d.def)
		if err != nil {
			panic(fmt.Sprintf("config: default for %s is invalid: %v", d.name, err))
		}
		s.entries[Normalize(d.name)] = &entry{definition: d, value: v}
	}
	return s
}

// Normalize drops spaces, underscores and hyphens and lowercases the rest.
func Normalize(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-':
			return -1
		}
		return r
	}, strings.ToLower(name))
}

func (s *Store) lookup(name string) (*entry, error) {
	e, ok := s.entries[Normalize(name)]
	if !ok {
		return nil, failure.New(failure.KindValueError, "unknown parameter %q", name)
	}
	return e, nil
}

func (s *Store) Get(name string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	return e.value, nil
}

// Set validates value, stores it and returns the previous value.
func (s *Store) Set(name string, value any) (any, error) {
	s.mu.Lock()
	e, err := s.lookup(name)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	v, err := e.validate(value)
	if err != nil {
		s.mu.Unlock()
		return nil, failure.Wrap(failure.KindValueError, err, "invalid value for %s", e.name)
	}
	old := e.value
	e.value = v

	key := Normalize(e.name)
	notify := []pending{{key, v}}
	switch key {
	case Normalize(ContainingTextMatch):
		s.caseHooked = false
	case Normalize(CaseInsensitive):
		notify = append(notify, s.applyCaseHook(v.(bool))...)
	}
	s.mu.Unlock()

	s.fire(notify)
	return old, nil
}

// Reset restores the default of name and returns the stored value.
func (s *Store) Reset(name string) (any, error) {
	s.mu.Lock()
	e, err := s.lookup(name)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	notify := s.resetEntry(e)
	v := e.value
	s.mu.Unlock()

	s.fire(notify)
	return v, nil
}

// ResetAll restores every default and re-hooks the case-insensitive template.
func (s *Store) ResetAll() {
	s.mu.Lock()
	var notify []pending
	for _, e := range s.entries {
		notify = append(notify, s.resetEntry(e)...)
	}
	s.caseHooked = true
	s.mu.Unlock()

	s.fire(notify)
}

type pending struct {
	key   string
	value any
}

func (s *Store) resetEntry(e *entry) []pending {
	v, _ := e.validate(e.def)
	e.value = v
	key := Normalize(e.name)

	var notify []pending
	if e.sideEffect {
		notify = append(notify, pending{key, v})
	}
	switch key {
	case Normalize(ContainingTextMatch):
		s.caseHooked = true
	case Normalize(CaseInsensitive):
		notify = append(notify, s.applyCaseHook(v.(bool))...)
	}
	return notify
}

func (s *Store) applyCaseHook(on bool) []pending {
	if !s.caseHooked {
		return nil
	}
	tmpl := search.ContainingTextMatchCaseSensitive
	if on {
		tmpl = search.ContainingTextMatchCaseInsensitive
	}
	key := Normalize(ContainingTextMatch)
	s.entries[key].value = tmpl
	return []pending{{key, tmpl}}
}

func (s *Store) fire(notify []pending) {
	if len(notify) == 0 {
		return
	}
	s.mu.RLock()
	calls := make([]func(), 0, len(notify))
	for _, n := range notify {
		for _, w := range s.watchers[n.key] {
			w, v := w, n.value
			calls = append(calls, func() { w(v) })
		}
	}
	s.mu.RUnlock()

	for _, c := range calls {
		c()
	}
}

// Watch registers fn for changes of name. Unknown names are a programming error.
func (s *Store) Watch(name string, fn Watcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := Normalize(name)
	if _, ok := s.entries[key]; !ok {
		panic("config: watch of unknown entry " + name)
	}
	s.watchers[key] = append(s.watchers[key], fn)
}

// Entry describes one knob for listings.
type Entry struct {
	Name    string
	Value   any
	Default any
	Help    string
}

func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, Entry{Name: e.name, Value: e.value, Default: e.def, Help: e.help})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Store) mustGet(name string) any {
	v, err := s.Get(name)
	if err != nil {
		panic("config: " + err.Error())
	}
	return v
}

func (s *Store) Bool(name string) bool { return s.mustGet(name).(bool) }

func (s *Store) Duration(name string) time.Duration { return s.mustGet(name).(time.Duration) }

func (s *Store) String(name string) string { return s.mustGet(name).(string) }

func (s *Store) Int(name string) int { return s.mustGet(name).(int) }

func (s *Store) Float(name string) float64 { return s.mustGet(name).(float64) }

func (s *Store) Strings(name string) []string { return s.mustGet(name).([]string) }

func (s *Store) WindowSize() WindowSize { return s.mustGet(WindowSizeName).(WindowSize) }
