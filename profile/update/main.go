// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Profiling:
// go build ./profile/update
// go tool pprof -http=":8000" -nodefraction=0.001 ./update cpu.pprof
package main

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/profile"

	"github.com/gviegas/scenegraph/entity"
)

func main() {
	ticks := 10000
	p := profile.Start(profile.ProfilePath("."), profile.NoShutdownHook)
	run(ticks)
	p.Stop()
}

// run builds a 64-deep chain hanging off a 512-child root and drives
// it for the given number of ticks, invalidating a mid-chain entity
// and reading the leaf's world matrix each tick.
func run(ticks int) {
	root := entity.New()
	for i := 0; i < 512; i++ {
		if err := root.Add(entity.New()); err != nil {
			slog.Error("fan-out", "error", err)
			return
		}
	}

	e := root
	var mid, leaf *entity.Entity
	for i := 0; i < 64; i++ {
		c := entity.New()
		if err := e.Add(c); err != nil {
			slog.Error("chain", "error", err)
			return
		}
		if err := c.SetPosition(mgl64.Vec3{1, 0, 0}); err != nil {
			slog.Error("chain", "error", err)
			return
		}
		if i == 32 {
			mid = c
		}
		e = c
	}
	leaf = e

	for i := 0; i < ticks; i++ {
		if err := mid.SetPosition(mgl64.Vec3{1, float64(i), 0}); err != nil {
			slog.Error("tick", "error", err)
			return
		}
		if err := root.Update(1.0 / 60); err != nil {
			slog.Error("tick", "error", err)
			return
		}
		_ = leaf.WorldMatrix()
	}
}
