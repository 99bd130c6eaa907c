// Package models holds the fixed table of chat models the client can target.
package models

import (
	"errors"
	"fmt"
)

// ErrUnknownModel is returned by Lookup when a key is not in the registry.
var ErrUnknownModel = errors.New("unknown model")

// Descriptor describes one selectable model.
type Descriptor struct {
	Key         string // Identifier sent to the API (e.g. "gpt-4o").
	DisplayName string // Human-readable name used as the assistant label.
	Description string
}

// Registry is an immutable, ordered set of model descriptors. It is safe for
// concurrent use because nothing mutates it after construction.
type Registry struct {
	order []Descriptor
	byKey map[string]int
}

var builtin = []Descriptor{
	{
		Key:         "o3-mini",
		DisplayName: "o3 Mini",
		Description: "Optimized for critical thinking and analysis in math and coding.",
	},
	{
		Key:         "o1",
		DisplayName: "o1",
		Description: "Optimized for critical thinking and analysis.",
	},
	{
		Key:         "gpt-4o",
		DisplayName: "ChatGPT 4o",
		Description: "Powered by ChatGPT 4O, optimized for speed and efficiency.",
	},
}

// Builtin returns a copy of the built-in descriptor table.
func Builtin() []Descriptor {
	out := make([]Descriptor, len(builtin))
	copy(out, builtin)
	return out
}

// Default returns a registry holding the built-in models.
func Default() *Registry {
	r, err := New(builtin...)
	if err != nil {
		panic(fmt.Sprintf("models: invalid builtin table: %v", err))
	}
	return r
}

// New builds a registry from descs, preserving their order. Keys must be
// non-empty and unique.
func New(descs ...Descriptor) (*Registry, error) {
	r := &Registry{
		order: make([]Descriptor, 0, len(descs)),
		byKey: make(map[string]int, len(descs)),
	}

	for _, d := range descs {
		if d.Key == "" {
			return nil, errors.New("models: descriptor key is required")
		}
		if _, dup := r.byKey[d.Key]; dup {
			return nil, fmt.Errorf("models: duplicate key %q", d.Key)
		}
		if d.DisplayName == "" {
			d.DisplayName = d.Key
		}
		r.byKey[d.Key] = len(r.order)
		r.order = append(r.order, d)
	}

	return r, nil
}

// Lookup returns the descriptor for key.
func (r *Registry) Lookup(key string) (Descriptor, error) {
	i, ok := r.byKey[key]
	if !ok {
		return Descriptor{}, fmt.Errorf("models: %w %q", ErrUnknownModel, key)
	}
	return r.order[i], nil
}

// Has reports whether key is registered.
func (r *Registry) Has(key string) bool {
	_, ok := r.byKey[key]
	return ok
}

// Keys returns the registered keys in table order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.order))
	for i, d := range r.order {
		keys[i] = d.Key
	}
	return keys
}

// Descriptors returns a copy of the registered descriptors in table order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered models.
func (r *Registry) Len() int { return len(r.order) }

// Next returns the key that follows key in table order, wrapping around.
// An unknown key yields the first key.
func (r *Registry) Next(key string) string {
	if len(r.order) == 0 {
		return ""
	}
	i, ok := r.byKey[key]
	if !ok {
		return r.order[0].Key
	}
	return r.order[(i+1)%len(r.order)].Key
}
