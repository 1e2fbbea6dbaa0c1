package segtree

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Sumatoshi-tech/segviz/pkg/levenshtein"
)

// Sentinel errors for the function registry.
var (
	// ErrUnknownFunction indicates a lookup of an unregistered function name.
	ErrUnknownFunction = errors.New("unknown aggregate function")
	// ErrDuplicateFunction indicates a second registration under an existing name.
	ErrDuplicateFunction = errors.New("aggregate function already registered")
)

// DefaultFunctionName is the function a fresh visualizer starts with.
const DefaultFunctionName = "add_f"

// maxSuggestDistance bounds the edit distance of "did you mean" hints.
const maxSuggestDistance = 2

// AggregateFunction is a named binary operator with the value returned for
// query ranges that do not overlap a node's segment.
type AggregateFunction struct {
	Name        string
	Description string
	Op          func(a, b int64) int64
	// Invalid is returned for ranges with no overlap. It should behave as
	// the identity of Op for partial queries to compose.
	Invalid int64
}

// Registry is a lookup table of aggregate functions keyed by name.
type Registry struct {
	functions map[string]AggregateFunction
}

// NewRegistry creates a registry holding the given functions.
// Duplicate names keep the first registration.
func NewRegistry(fns ...AggregateFunction) *Registry {
	reg := &Registry{functions: make(map[string]AggregateFunction, len(fns))}

	for _, fn := range fns {
		_ = reg.Register(fn)
	}

	return reg
}

// DefaultRegistry returns a registry populated with the built-in functions.
func DefaultRegistry() *Registry {
	return NewRegistry(Builtins()...)
}

// Register adds fn to the registry.
func (r *Registry) Register(fn AggregateFunction) error {
	if _, ok := r.functions[fn.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateFunction, fn.Name)
	}

	r.functions[fn.Name] = fn

	return nil
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (AggregateFunction, error) {
	fn, ok := r.functions[name]
	if !ok {
		if hint, found := levenshtein.Closest(name, r.Names(), maxSuggestDistance); found {
			return AggregateFunction{}, fmt.Errorf("%w: %s (did you mean %s?)", ErrUnknownFunction, name, hint)
		}

		return AggregateFunction{}, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}

	return fn, nil
}

// Names returns the registered function names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.functions))

	for name := range r.functions {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Len returns the number of registered functions.
func (r *Registry) Len() int {
	return len(r.functions)
}
