// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gviegas/scenegraph/linear"
)

// Pose is a world transform decomposed into independent position,
// orientation and scale components.
type Pose struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
}

// RenderSyncFunc copies a freshly computed world pose into an
// external render component. The component is the opaque value
// registered with SetRenderComponent, passed back unmodified.
type RenderSyncFunc func(component any, pose Pose) error

// SetRenderComponent registers an external render component and the
// callback that keeps it in sync with the entity's world transform,
// then performs one synchronization pass immediately. Both arguments
// are required; a nil component or callback fails with
// ErrInvalidArgument.
func (e *Entity) SetRenderComponent(component any, sync RenderSyncFunc) error {
	if component == nil || sync == nil {
		return fmt.Errorf("%w: render component and sync callback are both required", ErrInvalidArgument)
	}
	e.component = component
	e.sync = sync
	e.syncGen = 0
	return e.syncRender()
}

// RenderComponent returns the registered render component, if any.
func (e *Entity) RenderComponent() any { return e.component }

// syncRender pushes the decomposed world pose to the render
// component when the world transform changed since the last pass.
// Callback errors propagate and leave the pass unrecorded.
func (e *Entity) syncRender() error {
	if e.sync == nil {
		return nil
	}
	e.refreshWorld()
	if e.syncGen == e.worldGen {
		return nil
	}
	p, q, s := linear.Decompose(e.world)
	if err := e.sync(e.component, Pose{p, q, s}); err != nil {
		return err
	}
	e.syncGen = e.worldGen
	return nil
}
