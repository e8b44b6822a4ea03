// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Orbit drives a small sun/planet/moon hierarchy once per frame and
// draws the synchronized world positions as circles.
package main

import (
	"flag"
	"image/color"
	"log/slog"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/gviegas/scenegraph/entity"
)

const (
	screenW = 640
	screenH = 480
	tick    = 1.0 / 60
)

// sprite is the render component kept in sync with an entity's
// world transform.
type sprite struct {
	x, y   float64
	radius float32
	clr    color.RGBA
}

func syncSprite(component any, pose entity.Pose) error {
	s := component.(*sprite)
	s.x = pose.Position[0]
	s.y = pose.Position[1]
	return nil
}

type game struct {
	root    *entity.Entity
	sprites []*sprite
}

func (g *game) Update() error { return g.root.Update(tick) }

func (g *game) Draw(screen *ebiten.Image) {
	for _, s := range g.sprites {
		vector.DrawFilledCircle(screen, float32(s.x), float32(s.y), s.radius, s.clr, true)
	}
}

func (g *game) Layout(int, int) (int, int) { return screenW, screenH }

// spin returns an update hook advancing a rotation about Z at rate
// radians per second.
func spin(rate float64) func(*entity.Entity, float64) {
	var angle float64
	return func(e *entity.Entity, delta float64) {
		angle = math.Mod(angle+rate*delta, 2*math.Pi)
		if err := e.SetRotation(mgl64.QuatRotate(angle, mgl64.Vec3{0, 0, 1})); err != nil {
			slog.Error("spin", "error", err)
		}
	}
}

func newGame() (*game, error) {
	sun := entity.New()
	sun.Name = "sun"
	planet := entity.New()
	planet.Name = "planet"
	moon := entity.New()
	moon.Name = "moon"

	if err := sun.Add(planet); err != nil {
		return nil, err
	}
	if err := planet.Add(moon); err != nil {
		return nil, err
	}
	if err := sun.SetPosition(mgl64.Vec3{screenW / 2, screenH / 2, 0}); err != nil {
		return nil, err
	}
	if err := planet.SetPosition(mgl64.Vec3{140, 0, 0}); err != nil {
		return nil, err
	}
	if err := moon.SetPosition(mgl64.Vec3{40, 0, 0}); err != nil {
		return nil, err
	}
	sun.OnUpdate = spin(0.6)
	planet.OnUpdate = spin(2.4)

	g := &game{root: sun}
	for _, e := range []*entity.Entity{sun, planet, moon} {
		s := &sprite{}
		switch e.Name {
		case "sun":
			s.radius, s.clr = 24, color.RGBA{0xff, 0xc0, 0x20, 0xff}
		case "planet":
			s.radius, s.clr = 10, color.RGBA{0x30, 0x80, 0xff, 0xff}
		case "moon":
			s.radius, s.clr = 4, color.RGBA{0xc0, 0xc0, 0xc0, 0xff}
		}
		if err := e.SetRenderComponent(s, syncSprite); err != nil {
			return nil, err
		}
		g.sprites = append(g.sprites, s)
	}
	return g, nil
}

func main() {
	var tps int
	flag.IntVar(&tps, "tps", 60, "Ticks per second.")
	flag.Parse()

	g, err := newGame()
	if err != nil {
		slog.Error("setup", "error", err)
		os.Exit(1)
	}
	ebiten.SetWindowTitle("orbit")
	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetTPS(tps)
	if err := ebiten.RunGame(g); err != nil {
		slog.Error("run", "error", err)
		os.Exit(1)
	}
}
