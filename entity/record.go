// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package entity

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl64"
)

// Record is the flat serialized form of an Entity.
// The export is shallow: parent, children and neighbors appear as
// identifiers, never as embedded records. A nil Parent is the
// explicit "no parent" marker. Rotations are stored as [x y z w]
// and matrices in column-major order.
type Record struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name,omitempty"`
	Active             bool        `json:"active"`
	Started            bool        `json:"started"`
	Position           [3]float64  `json:"position"`
	Rotation           [4]float64  `json:"rotation"`
	Scale              [3]float64  `json:"scale"`
	Forward            [3]float64  `json:"forward"`
	Up                 [3]float64  `json:"up"`
	BoundingRadius     float64     `json:"boundingRadius"`
	MaxTurnRate        float64     `json:"maxTurnRate"`
	CanActivateTrigger bool        `json:"canActivateTrigger"`
	NeighborhoodRadius float64     `json:"neighborhoodRadius"`
	UpdateNeighborhood bool        `json:"updateNeighborhood"`
	LocalMatrix        [16]float64 `json:"localMatrix"`
	WorldMatrix        [16]float64 `json:"worldMatrix"`
	Parent             *string     `json:"parent,omitempty"`
	Children           []string    `json:"children,omitempty"`
	Neighbors          []string    `json:"neighbors,omitempty"`
}

// Export converts e into a Record, forcing the cached matrices
// current first. Identifiers are generated as needed.
func (e *Entity) Export() Record {
	r := Record{
		ID:                 e.ID(),
		Name:               e.Name,
		Active:             e.Active,
		Started:            e.started,
		Position:           [3]float64(e.position),
		Rotation:           [4]float64{e.rotation.V[0], e.rotation.V[1], e.rotation.V[2], e.rotation.W},
		Scale:              [3]float64(e.scale),
		Forward:            [3]float64(e.Forward),
		Up:                 [3]float64(e.Up),
		BoundingRadius:     e.BoundingRadius,
		MaxTurnRate:        e.MaxTurnRate,
		CanActivateTrigger: e.CanActivateTrigger,
		NeighborhoodRadius: e.NeighborhoodRadius,
		UpdateNeighborhood: e.UpdateNeighborhood,
		LocalMatrix:        [16]float64(e.LocalMatrix()),
		WorldMatrix:        [16]float64(e.WorldMatrix()),
	}
	if p := e.parent; p != nil {
		id := p.ID()
		r.Parent = &id
	}
	for _, c := range e.children {
		r.Children = append(r.Children, c.ID())
	}
	for _, n := range e.Neighbors {
		r.Neighbors = append(r.Neighbors, n.ID())
	}
	return r
}

// Import populates e from rec. Relationship identifiers are kept as
// unresolved placeholders until Resolve runs; live parent, children
// and neighbor links are cleared, detaching both sides so the old
// graph stays mutually consistent. Both matrix caches are invalidated
// unconditionally: a deserialized matrix snapshot is never trusted
// over a recomputation from the deserialized transform.
func (e *Entity) Import(rec Record) {
	if e.parent != nil {
		e.parent.detach(e)
	}
	for _, c := range e.children {
		c.parent = nil
		c.invalidateWorld()
	}
	e.id = rec.ID
	e.Name = rec.Name
	e.Active = rec.Active
	e.started = rec.Started
	e.position = mgl64.Vec3(rec.Position)
	e.rotation = mgl64.Quat{
		V: mgl64.Vec3{rec.Rotation[0], rec.Rotation[1], rec.Rotation[2]},
		W: rec.Rotation[3],
	}
	e.scale = mgl64.Vec3(rec.Scale)
	e.Forward = mgl64.Vec3(rec.Forward)
	e.Up = mgl64.Vec3(rec.Up)
	e.BoundingRadius = rec.BoundingRadius
	e.MaxTurnRate = rec.MaxTurnRate
	e.CanActivateTrigger = rec.CanActivateTrigger
	e.NeighborhoodRadius = rec.NeighborhoodRadius
	e.UpdateNeighborhood = rec.UpdateNeighborhood
	e.local = mgl64.Mat4(rec.LocalMatrix)
	e.world = mgl64.Mat4(rec.WorldMatrix)
	e.parent = nil
	e.children = nil
	e.Neighbors = nil
	if rec.Parent != nil {
		e.refParent, e.hasRefParent = *rec.Parent, true
	} else {
		e.refParent, e.hasRefParent = "", false
	}
	e.refChildren = append([]string(nil), rec.Children...)
	e.refNeighbors = append([]string(nil), rec.Neighbors...)
	e.gen++
	e.invalidateLocal()
}

// Resolve rewrites the identifier placeholders left by Import using
// the byID table. Identifiers absent from the table are dropped: a
// missing parent leaves the entity a root, missing children and
// neighbors are omitted. The world cache is invalidated afterwards
// since hierarchy membership may have changed.
//
// Consistency of the parent/children links across a graph follows
// from the records themselves being consistent, as produced by
// Export.
func (e *Entity) Resolve(byID map[string]*Entity) {
	if e.hasRefParent {
		e.parent = byID[e.refParent]
	} else {
		e.parent = nil
	}
	e.refParent, e.hasRefParent = "", false
	e.children = e.children[:0]
	for _, id := range e.refChildren {
		if c, ok := byID[id]; ok {
			e.children = append(e.children, c)
		}
	}
	e.refChildren = nil
	e.Neighbors = e.Neighbors[:0]
	for _, id := range e.refNeighbors {
		if n, ok := byID[id]; ok {
			e.Neighbors = append(e.Neighbors, n)
		}
	}
	e.refNeighbors = nil
	e.invalidateWorld()
}

// Dump exports root and every one of its descendants, ancestors
// first.
func Dump(root *Entity) []Record {
	recs := []Record{root.Export()}
	root.ForEach(func(e *Entity) {
		recs = append(recs, e.Export())
	})
	return recs
}

// Load rebuilds a graph from recs in two phases: first every record
// becomes a fresh entity and enters an identifier table, then each
// entity resolves its relationships against the table. Entities are
// returned in record order. Duplicate identifiers fail with
// ErrInvalidArgument.
func Load(recs []Record) ([]*Entity, error) {
	byID := make(map[string]*Entity, len(recs))
	out := make([]*Entity, 0, len(recs))
	for i := range recs {
		e := New()
		e.Import(recs[i])
		if e.id != "" {
			if _, ok := byID[e.id]; ok {
				return nil, fmt.Errorf("%w: duplicate identifier %s", ErrInvalidArgument, e.id)
			}
			byID[e.id] = e
		}
		out = append(out, e)
	}
	for _, e := range out {
		e.Resolve(byID)
	}
	return out, nil
}

// Encode encodes recs into w.
func Encode(w io.Writer, recs []Record) error {
	enc := json.NewEncoder(w)
	err := enc.Encode(recs)
	if err != nil {
		return err
	}
	return nil
}

// Decode decodes r into a record slice.
func Decode(r io.Reader) ([]Record, error) {
	var recs []Record
	dec := json.NewDecoder(r)
	err := dec.Decode(&recs)
	if err != nil {
		return nil, err
	}
	return recs, nil
}
