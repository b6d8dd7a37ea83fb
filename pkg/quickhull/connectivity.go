package quickhull

import (
	"fmt"
)

// Connectivity maps each directed edge of the surface to the face that owns
// it. The neighbour across edge e of a face is the owner of e.Reverse().
type Connectivity struct {
	edges map[Edge]*Triangle
	dups  int
	err   error
}

// NewConnectivity indexes faces.
func NewConnectivity(faces ...*Triangle) *Connectivity {
	c := &Connectivity{edges: make(map[Edge]*Triangle, 3*len(faces))}
	for _, t := range faces {
		c.Add(t)
	}
	return c
}

// Add records t's three edges. An edge already owned by another face means
// the surface is no longer a manifold; the newer face wins and the problem
// is reported through Err.
func (c *Connectivity) Add(t *Triangle) {
	for _, e := range t.Edges() {
		if prev, ok := c.edges[e]; ok && prev != t {
			c.dups++
			log.Warnf("duplicate edge %v: %v and %v", e, prev, t)
			if c.err == nil {
				c.err = fmt.Errorf("%w: edge %v shared by %v and %v", ErrNonManifold, e, prev, t)
			}
		}
		c.edges[e] = t
	}
}

// Remove drops t's edges. Edges since claimed by another face are kept.
func (c *Connectivity) Remove(t *Triangle) {
	for _, e := range t.Edges() {
		if c.edges[e] == t {
			delete(c.edges, e)
		}
	}
}

// Face returns the owner of e, or nil.
func (c *Connectivity) Face(e Edge) *Triangle {
	return c.edges[e]
}

// Len returns the number of indexed edges.
func (c *Connectivity) Len() int {
	return len(c.edges)
}

// Duplicates returns how many duplicate edges Add has seen.
func (c *Connectivity) Duplicates() int {
	return c.dups
}

// Err returns the first duplicate-edge error, if any.
func (c *Connectivity) Err() error {
	return c.err
}

func (c *Connectivity) takeErr() error {
	err := c.err
	c.err = nil
	return err
}

// Validate checks that every edge has a partner running the other way,
// i.e. the indexed faces form a closed surface.
func (c *Connectivity) Validate() error {
	if c.err != nil {
		return c.err
	}
	for e, t := range c.edges {
		if _, ok := c.edges[e.Reverse()]; !ok {
			return fmt.Errorf("%w: edge %v of %v is open", ErrNonManifold, e, t)
		}
	}
	return nil
}
