package scene

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/helios/engine/core"
)

var (
	ErrCyclicHierarchy = errors.New("cyclic parent hierarchy")
	ErrDuplicateBody   = errors.New("duplicate body name")
)

// Registry owns the bodies of a loaded scenario. It resolves parent names
// to indices once at construction and caches a parent-before-child solve
// order, so the per frame update is a flat walk.
type Registry struct {
	bodies   []*CelestialBody
	lookup   map[string]int
	order    []int
	degraded bool
}

// NewRegistry builds a registry from the given bodies. Duplicate names and
// cyclic parent chains are rejected. A body referencing a parent that does
// not exist is kept, orbits the world origin instead and flips the
// registry into degraded state.
func NewRegistry(bodies []*CelestialBody) (*Registry, error) {
	r := &Registry{
		bodies: bodies,
		lookup: make(map[string]int, len(bodies)),
	}

	for i, b := range bodies {
		if _, exists := r.lookup[b.Name]; exists {
			return nil, fmt.Errorf("%w: '%s'", ErrDuplicateBody, b.Name)
		}
		r.lookup[b.Name] = i
	}

	for _, b := range bodies {
		b.parent = noParent
		if b.ParentName == "" {
			continue
		}
		idx, ok := r.lookup[b.ParentName]
		if !ok {
			core.LogWarn("body '%s' references unknown parent '%s', it will orbit the origin", b.Name, b.ParentName)
			r.degraded = true
			continue
		}
		b.parent = idx
	}

	order, err := r.topologicalOrder()
	if err != nil {
		return nil, err
	}
	r.order = order

	return r, nil
}

const (
	colourWhite = iota
	colourGrey
	colourBlack
)

// topologicalOrder sorts body indices so that every parent appears before
// its children. A grey node seen twice on the same walk is a cycle.
func (r *Registry) topologicalOrder() ([]int, error) {
	colours := make([]int, len(r.bodies))
	order := make([]int, 0, len(r.bodies))

	var visit func(i int) error
	visit = func(i int) error {
		switch colours[i] {
		case colourBlack:
			return nil
		case colourGrey:
			return fmt.Errorf("%w: involving body '%s'", ErrCyclicHierarchy, r.bodies[i].Name)
		}
		colours[i] = colourGrey
		if p := r.bodies[i].parent; p != noParent {
			if err := visit(p); err != nil {
				return err
			}
		}
		colours[i] = colourBlack
		order = append(order, i)
		return nil
	}

	for i := range r.bodies {
		if err := visit(i); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// Bodies returns all bodies in scenario insertion order.
func (r *Registry) Bodies() []*CelestialBody {
	return r.bodies
}

// Get looks a body up by name.
func (r *Registry) Get(name string) (*CelestialBody, bool) {
	idx, ok := r.lookup[name]
	if !ok {
		return nil, false
	}
	return r.bodies[idx], true
}

// IndexOf returns the insertion index of the named body.
func (r *Registry) IndexOf(name string) (int, bool) {
	idx, ok := r.lookup[name]
	return idx, ok
}

func (r *Registry) Len() int {
	return len(r.bodies)
}

// Degraded reports whether any body lost its parent during resolution.
func (r *Registry) Degraded() bool {
	return r.degraded
}
