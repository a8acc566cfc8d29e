package sched

import (
	"go.uber.org/zap"

	"github.com/zuoan7/uthread"
	"github.com/zuoan7/uthread/errors"
	"github.com/zuoan7/uthread/fiber"
)

const (
	// DefaultMaxCoroutines is the slot table capacity used when
	// Config.MaxCoroutines is zero.
	DefaultMaxCoroutines = 1024

	// DefaultStackSize is the per-slot stack region used when
	// Config.StackSize is zero.
	DefaultStackSize = 128 * 1024

	// MinStackSize is the smallest accepted per-slot stack region.
	MinStackSize = 4 * 1024
)

// Config holds configuration for scheduler creation
type Config struct {
	// Switcher provides execution contexts. nil means fiber.NewPull().
	Switcher uthread.Switcher

	// Logger overrides the package logger for this scheduler.
	Logger *zap.Logger

	// MaxCoroutines bounds the slot table. 0 means DefaultMaxCoroutines.
	MaxCoroutines int

	// StackSize is the size in bytes of each slot's private stack region.
	// 0 means DefaultStackSize.
	StackSize int
}

func (c *Config) withDefaults() (Config, error) {
	var out Config
	if c != nil {
		out = *c
	}

	switch {
	case out.MaxCoroutines < 0:
		return out, errors.InvalidConfig("MaxCoroutines", out.MaxCoroutines, "must not be negative")
	case out.MaxCoroutines == 0:
		out.MaxCoroutines = DefaultMaxCoroutines
	}

	switch {
	case out.StackSize == 0:
		out.StackSize = DefaultStackSize
	case out.StackSize < MinStackSize:
		return out, errors.New(errors.PhaseConfig, errors.KindInvalidConfig).
			Field("StackSize").
			Value(out.StackSize).
			Detail("must be at least %d bytes", MinStackSize).
			Build()
	}

	if out.Switcher == nil {
		out.Switcher = fiber.NewPull()
	}
	if out.Logger == nil {
		out.Logger = Logger()
	}
	return out, nil
}
