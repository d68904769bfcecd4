package ecs_test

import (
	"io"
	"log"

	"github.com/plus3/hearth/ecs"
)

// Common test component kinds
const (
	KindPosition ecs.Kind = iota + 1
	KindVelocity
	KindHealth
	KindHunger
	KindName
	KindA
	KindB
	KindC
)

type Position struct {
	X, Y float32
}

func (*Position) Kind() ecs.Kind { return KindPosition }

type Velocity struct {
	DX, DY float32
}

func (*Velocity) Kind() ecs.Kind { return KindVelocity }

type Health struct {
	Current int
	Max     int
}

func (*Health) Kind() ecs.Kind { return KindHealth }

type Hunger struct {
	Current float64
	Max     float64
}

func (*Hunger) Kind() ecs.Kind { return KindHunger }

type Name struct {
	Value string
}

func (*Name) Kind() ecs.Kind { return KindName }

type TagA struct{}

func (*TagA) Kind() ecs.Kind { return KindA }

type TagB struct{}

func (*TagB) Kind() ecs.Kind { return KindB }

type TagC struct{}

func (*TagC) Kind() ecs.Kind { return KindC }

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry, "position")
	ecs.RegisterComponent[Velocity](registry, "velocity")
	ecs.RegisterComponent[Health](registry, "health")
	ecs.RegisterComponent[Hunger](registry, "hunger")
	ecs.RegisterComponent[Name](registry, "name")
	ecs.RegisterComponent[TagA](registry, "a")
	ecs.RegisterComponent[TagB](registry, "b")
	ecs.RegisterComponent[TagC](registry, "c")
	return registry
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newTestWorld(opts ...ecs.WorldOption) *ecs.World {
	opts = append([]ecs.WorldOption{ecs.WithLogger(quietLogger())}, opts...)
	return ecs.NewWorld(newTestRegistry(), opts...)
}
