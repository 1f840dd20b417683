/*
 * Copyright © 2025 Envitrack Systems Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// KeyDeriver computes every derived key attribute (PK, SK, GSI pairs)
// for one entity. Datastores invoke it on each write so derived keys
// can never go stale relative to the attributes they encode.
type KeyDeriver[T any] func(entity *T) map[string]string

var (
	deriverRegistry = make(map[reflect.Type]any)
	schemaRegistry  = make(map[string]Schema)
	mu              sync.RWMutex
)

// RegisterKeyDeriver associates a Go type T with its key derivation function.
func RegisterKeyDeriver[T any](fn KeyDeriver[T]) {
	var zero T
	t := reflect.TypeOf(zero)

	mu.Lock()
	defer mu.Unlock()
	deriverRegistry[t] = fn
}

// GetKeyDeriver retrieves the key deriver for type T, if any.
func GetKeyDeriver[T any]() (KeyDeriver[T], bool) {
	var zero T
	t := reflect.TypeOf(zero)

	mu.RLock()
	defer mu.RUnlock()
	fn, ok := deriverRegistry[t]
	if !ok {
		return nil, false
	}
	return fn.(KeyDeriver[T]), true
}

// Schema describes an entity type's key layout for tooling and
// diagnostics: its type prefix, the attribute holding its dependent
// count (empty for leaf entities), and the templates its derived keys
// follow.
type Schema struct {
	// TypePrefix is the partition key prefix, e.g. "CUSTOMER".
	TypePrefix string
	// CounterAttribute names the dependent-count attribute, if any.
	CounterAttribute string
	// KeyTemplates maps key attribute names to their string templates,
	// e.g. "GSI1PK" -> "CUSTOMER_STATUS#{status}".
	KeyTemplates map[string]string
}

// RegisterSchema records the key schema for an entity type prefix.
// Registering the same prefix twice panics to prevent accidental overrides.
func RegisterSchema(s Schema) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := schemaRegistry[s.TypePrefix]; exists {
		panic(fmt.Sprintf("registry: schema with prefix %q already registered", s.TypePrefix))
	}
	schemaRegistry[s.TypePrefix] = s
}

// GetSchema returns the registered schema for the given type prefix.
func GetSchema(prefix string) (Schema, bool) {
	mu.RLock()
	defer mu.RUnlock()
	s, ok := schemaRegistry[prefix]
	return s, ok
}

// Schemas returns all registered schemas ordered by type prefix.
func Schemas() []Schema {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]Schema, 0, len(schemaRegistry))
	for _, s := range schemaRegistry {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TypePrefix < out[j].TypePrefix })
	return out
}
