package model

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownModel indicates a model name with no registered factory.
var ErrUnknownModel = errors.New("unknown model")

// Factory builds a Scorer from a restored checkpoint.
type Factory func(ckpt *Checkpoint) (Scorer, error)

// Registry maps model names to factories. It is populated explicitly at
// startup; there is no lookup-by-reflection.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Builtin returns a registry pre-populated with the linear scorer family.
func Builtin() *Registry {
	r := NewRegistry()
	r.Register("logistic", NewLogistic)
	r.Register("linear", NewLinear)
	return r
}

// Register adds a factory under the given name, replacing any previous entry.
func (r *Registry) Register(name string, factory Factory) {
	if name == "" || factory == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// New builds a Scorer for the named model from the checkpoint.
func (r *Registry) New(name string, ckpt *Checkpoint) (Scorer, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %v)", ErrUnknownModel, name, r.Names())
	}
	return factory(ckpt)
}

// Names lists registered model names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
