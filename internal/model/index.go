package model

import (
	"sort"
	"strings"
)

// Index maps every alias of an entity (its id and, for most tables, its
// name) to the entity. Many aliases point to one object.
type Index[T comparable] struct {
	kind    ModelType
	byAlias map[string]T
	order   []T
	refs    map[T]int
}

// NewIndex creates an empty index for entities of the given kind.
func NewIndex[T comparable](kind ModelType) *Index[T] {
	return &Index[T]{
		kind:    kind,
		byAlias: make(map[string]T),
		refs:    make(map[T]int),
	}
}

// Kind returns the entity type stored in the index.
func (x *Index[T]) Kind() ModelType {
	return x.kind
}

// Put registers e under alias. Blank aliases are ignored. If alias was
// already registered for a different entity, that entity is replaced and
// returned with replaced set to true.
func (x *Index[T]) Put(alias string, e T) (prev T, replaced bool) {
	if strings.TrimSpace(alias) == "" {
		return prev, false
	}
	if existing, ok := x.byAlias[alias]; ok {
		if existing == e {
			return prev, false
		}
		x.refs[existing]--
		prev, replaced = existing, true
	}
	x.byAlias[alias] = e
	if _, seen := x.refs[e]; !seen {
		x.order = append(x.order, e)
	}
	x.refs[e]++
	return prev, replaced
}

// Get returns the entity registered under alias.
func (x *Index[T]) Get(alias string) (T, bool) {
	e, ok := x.byAlias[alias]
	return e, ok
}

// Values returns the distinct entities that are still reachable through an
// alias, in first-registration order.
func (x *Index[T]) Values() []T {
	out := make([]T, 0, len(x.order))
	for _, e := range x.order {
		if x.refs[e] > 0 {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of distinct reachable entities.
func (x *Index[T]) Len() int {
	n := 0
	for _, e := range x.order {
		if x.refs[e] > 0 {
			n++
		}
	}
	return n
}

// Aliases returns every registered alias, sorted.
func (x *Index[T]) Aliases() []string {
	out := make([]string, 0, len(x.byAlias))
	for a := range x.byAlias {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}
