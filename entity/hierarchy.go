// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package entity

import "fmt"

// Add attaches child as the last of e's children.
// A child that belongs to another parent is detached from it first;
// re-adding a current child moves it to the end of the sequence.
// A nil child is ignored. Attachments that would make an entity an
// ancestor of itself fail with ErrCycle and have no effect.
func (e *Entity) Add(child *Entity) error {
	if child == nil {
		return nil
	}
	for a := e; a != nil; a = a.parent {
		if a == child {
			return fmt.Errorf("%w: child is an ancestor of the target", ErrCycle)
		}
	}
	if child.parent != nil {
		child.parent.detach(child)
	}
	e.children = append(e.children, child)
	child.parent = e
	child.invalidateWorld()
	return nil
}

// Remove detaches child from e, leaving it a root.
// Entities that are not children of e are ignored.
// Removal does not destroy the child; its lifetime belongs to the
// caller.
func (e *Entity) Remove(child *Entity) {
	if child == nil || child.parent != e {
		return
	}
	e.detach(child)
	child.invalidateWorld()
}

// detach unlinks child from e's children sequence and clears its
// parent reference. child.parent must be e.
func (e *Entity) detach(child *Entity) {
	for i, c := range e.children {
		if c == child {
			e.children = append(e.children[:i], e.children[i+1:]...)
			break
		}
	}
	child.parent = nil
}

// Parent returns the entity's immediate ancestor, or nil for roots.
func (e *Entity) Parent() *Entity { return e.parent }

// Children returns a snapshot of the entity's immediate descendants
// in insertion order.
func (e *Entity) Children() []*Entity {
	return append([]*Entity(nil), e.children...)
}

// Root returns the topmost ancestor of e, possibly e itself.
func (e *Entity) Root() *Entity {
	r := e
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// ForEach calls f for each descendant of entity e.
// Ancestors are processed first.
// The scene graph must not be changed until this method returns.
func (e *Entity) ForEach(f func(*Entity)) {
	que := append([]*Entity(nil), e.children...)
	for len(que) > 0 {
		nd := que[0]
		que = que[1:]
		f(nd)
		que = append(que, nd.children...)
	}
}

// Until calls f for each descendant of entity e.
// Ancestors are processed first. If f returns false, Until returns
// immediately.
// The scene graph must not be changed until this method returns.
func (e *Entity) Until(f func(*Entity) bool) {
	que := append([]*Entity(nil), e.children...)
	for len(que) > 0 {
		nd := que[0]
		que = que[1:]
		if !f(nd) {
			return
		}
		que = append(que, nd.children...)
	}
}
