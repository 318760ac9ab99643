// File: registry.go
// Title: Parselet Registry
// Description: Maps token identities to at most one prefix and one infix
//              parselet. A Registry handed out by the builder is a frozen
//              snapshot and is shared read-only between parses.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-16
// Modified: 2026-10-16
//
// Change History:
// - 2026-10-16 v0.1.0: Initial implementation

package parser

import (
	"sort"
)

// entry holds both roles of one identity so dispatch is a single lookup
type entry[E any, T Token] struct {
	prefix PrefixParselet[E, T]
	infix  InfixParselet[E, T]
}

// Registry is an identity to parselet mapping. It has no exported
// mutators; only the Builder populates it.
type Registry[E any, T Token] struct {
	entries map[string]entry[E, T]
}

func newRegistry[E any, T Token]() *Registry[E, T] {
	return &Registry[E, T]{entries: make(map[string]entry[E, T])}
}

// Prefix returns the prefix parselet registered for id
func (r *Registry[E, T]) Prefix(id string) (PrefixParselet[E, T], bool) {
	e, ok := r.entries[id]
	if !ok || e.prefix == nil {
		return nil, false
	}
	return e.prefix, true
}

// Infix returns the infix parselet registered for id
func (r *Registry[E, T]) Infix(id string) (InfixParselet[E, T], bool) {
	e, ok := r.entries[id]
	if !ok || e.infix == nil {
		return nil, false
	}
	return e.infix, true
}

// Precedence returns the infix precedence of id, 0 when id has no infix
// role.
func (r *Registry[E, T]) Precedence(id string) int {
	if e, ok := r.entries[id]; ok && e.infix != nil {
		return e.infix.Precedence()
	}
	return 0
}

// Len returns the number of identities with at least one role
func (r *Registry[E, T]) Len() int {
	return len(r.entries)
}

// Identities returns the registered identities in sorted order
func (r *Registry[E, T]) Identities() []string {
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Registry[E, T]) setPrefix(id string, p PrefixParselet[E, T]) {
	e := r.entries[id]
	e.prefix = p
	r.store(id, e)
}

func (r *Registry[E, T]) setInfix(id string, p InfixParselet[E, T]) {
	e := r.entries[id]
	e.infix = p
	r.store(id, e)
}

// store drops identities left without any role
func (r *Registry[E, T]) store(id string, e entry[E, T]) {
	if e.prefix == nil && e.infix == nil {
		delete(r.entries, id)
		return
	}
	r.entries[id] = e
}

// clone copies the identity map. Parselets are shared, they are values or
// closures over construction-time arguments only.
func (r *Registry[E, T]) clone() *Registry[E, T] {
	c := &Registry[E, T]{entries: make(map[string]entry[E, T], len(r.entries))}
	for id, e := range r.entries {
		c.entries[id] = e
	}
	return c
}
