// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package entity implements the elements of the scene graph.
// An Entity carries a local transform relative to its parent and
// derives its world transform lazily through the parent chain.
// Entities are meant to be driven once per frame by an external
// loop calling Update on the roots; the package itself performs
// no scheduling and provides no synchronization, so a given graph
// must be owned by a single goroutine.
package entity

import (
	"errors"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	uuid "github.com/satori/go.uuid"
)

var (
	// ErrInvalidArgument reports a missing or malformed value
	// passed to a setter. The offending call has no effect.
	ErrInvalidArgument = errors.New("entity: invalid argument")

	// ErrCycle reports an Add call that would make an entity an
	// ancestor of itself.
	ErrCycle = errors.New("entity: hierarchy cycle")
)

var logger = slog.With("component", "entity")

// Entity represents a single node in a scene graph.
// Entities have at most one immediate ancestor and an arbitrary
// number of immediate descendants.
type Entity struct {
	// Name for the entity.
	// It is not used by entity code.
	Name string

	// Whether Update processes the entity.
	Active bool

	// Reference vectors defining the facing convention.
	// Forward defaults to Z+ and Up to Y+.
	Forward mgl64.Vec3
	Up      mgl64.Vec3

	// Maximum turn rate of RotateToward, in radians per second.
	MaxTurnRate float64

	BoundingRadius     float64
	CanActivateTrigger bool

	// Passive neighborhood data maintained by an external
	// spatial system. Neighbors are not owned.
	Neighbors          []*Entity
	NeighborhoodRadius float64
	UpdateNeighborhood bool

	// Manager routes outgoing messages. Not owned; may be nil.
	Manager Manager

	// OnStart runs once, on the entity's first update.
	OnStart func(*Entity)
	// OnUpdate runs on every update of an active entity.
	OnUpdate func(*Entity, float64)
	// OnMessage answers messages delivered by the manager.
	OnMessage func(*Entity, Telegram) bool

	id      string
	started bool

	parent   *Entity
	children []*Entity

	position mgl64.Vec3
	rotation mgl64.Quat
	scale    mgl64.Vec3

	// Transform generations keying the matrix caches.
	// gen advances on every effective transform write; the cached
	// matrices record the generations they were derived from, so
	// staleness is a comparison rather than a mutable flag.
	gen            uint64
	localGen       uint64
	local          mgl64.Mat4
	worldGen       uint64
	worldLocalGen  uint64
	worldParentGen uint64
	world          mgl64.Mat4

	component any
	sync      RenderSyncFunc
	syncGen   uint64

	// Unresolved identifiers left by Import until Resolve runs.
	refParent    string
	hasRefParent bool
	refChildren  []string
	refNeighbors []string
}

// New creates an initialized entity.
func New() *Entity { return new(Entity).Init() }

// Init initializes entity e: default transform, no parent, no
// identifier, caches pending.
func (e *Entity) Init() *Entity {
	*e = Entity{
		Active:      true,
		Forward:     mgl64.Vec3{0, 0, 1},
		Up:          mgl64.Vec3{0, 1, 0},
		MaxTurnRate: math.Pi,
		rotation:    mgl64.QuatIdent(),
		scale:       mgl64.Vec3{1, 1, 1},
		gen:         1,
	}
	return e
}

// ID returns the entity's unique identifier, a random v4 UUID.
// It is generated on first use and never changes afterwards,
// except through SetID.
func (e *Entity) ID() string {
	if e.id == "" {
		e.id = uuid.NewV4().String()
	}
	return e.id
}

// SetID overrides the entity's identifier.
// Meant for deserialization; see Import.
func (e *Entity) SetID(id string) { e.id = id }

// Started reports whether the entity went through its first update.
func (e *Entity) Started() bool { return e.started }

// Update advances the entity and all of its descendants by delta
// seconds. Inactive entities and their subtrees are skipped.
// The first update of an entity runs its OnStart hook. Errors from
// render synchronization abort the update and propagate unmodified.
func (e *Entity) Update(delta float64) error {
	if !e.Active {
		return nil
	}
	if !e.started {
		if e.OnStart != nil {
			e.OnStart(e)
		}
		e.started = true
	}
	if e.OnUpdate != nil {
		e.OnUpdate(e, delta)
	}
	if err := e.syncRender(); err != nil {
		return err
	}
	for _, c := range e.children {
		if err := c.Update(delta); err != nil {
			return err
		}
	}
	return nil
}
