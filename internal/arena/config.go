// Package arena provides the tick driver, match lifecycle, deterministic
// per-robot PRNG seeding, and a minimal reference arenaquery.Query
// implementation (spec.md §4.4, §5, §6.3). Rendering, obstacle placement,
// full projectile physics and random arena generation stay out of scope
// (spec.md §1); this package supplies just enough straight-line clearance
// and hit resolution to run a match end to end.
package arena

import (
	"math"

	"robotbattle/internal/component"
	"robotbattle/internal/vmcore"
)

// Config collects every tunable named in spec.md §6.3, mirroring the
// plain-struct-plus-DefaultConfig shape of vybium-starks-vm's
// utils.Config/DefaultConfig (internal/vybium-starks-vm/utils/config.go)
// rather than introducing a flags/env-based configuration layer the
// teacher's corpus never reaches for in this spot.
type Config struct {
	MaxTurns              int
	CyclesPerTurn         int
	MaxCallDepth          int
	MaxStackDepth         int
	MemorySize            int
	GeneralRegistersCount int

	ArenaWidth  float64
	ArenaHeight float64

	ScannerFOVDegrees    float64
	DriveRotationPerTurn float64
	MaxVelocity          float64
	AccelPerCycle        float64

	ProjectileSpeed    float64
	FirePowerCost      float64
	FireCooldownCycles int
	FireDamagePerPower float64

	MeleeDamage float64
	MeleeRange  float64
	MeleeFOV    float64

	PowerRegenPerCycle float64
	MaxPower           float64
	StartingHealth     float64
}

// DefaultConfig returns the tunables spec.md §6.3 names explicitly with
// their documented defaults. Values §6.3 leaves unspecified (per-robot
// acceleration rate, max velocity, fire/melee damage and cost, projectile
// speed) are assigned conservative defaults here; DESIGN.md's Assumption
// note under internal/component covers the velocity and acceleration ones.
func DefaultConfig() Config {
	return Config{
		MaxTurns:              1000,
		CyclesPerTurn:         100,
		MaxCallDepth:          10,
		MaxStackDepth:         256,
		MemorySize:            1024,
		GeneralRegistersCount: 19,

		ArenaWidth:  1000,
		ArenaHeight: 1000,

		ScannerFOVDegrees:    22.5,
		DriveRotationPerTurn: 90,
		MaxVelocity:          5,
		AccelPerCycle:        0.5,

		ProjectileSpeed:    50,
		FirePowerCost:      0.5,
		FireCooldownCycles: 20,
		FireDamagePerPower: 25,

		MeleeDamage: 10,
		MeleeRange:  3,
		MeleeFOV:    45,

		PowerRegenPerCycle: 0.01,
		MaxPower:           1.0,
		StartingHealth:     100,
	}
}

// Limits adapts Config to the subset vmcore.VM needs, keeping vmcore free
// of an import on this package.
func (c Config) Limits() vmcore.Limits {
	return vmcore.Limits{
		MemorySize:         c.MemorySize,
		MaxStackDepth:      c.MaxStackDepth,
		MaxCallDepth:       c.MaxCallDepth,
		PowerRegenPerCycle: c.PowerRegenPerCycle,
		MaxPower:           c.MaxPower,
		StartingHealth:     c.StartingHealth,
	}
}

// ComponentConfig adapts Config to the component package's Config,
// deriving per-cycle rates from the per-turn tunables (spec.md §4.3
// "rotation rate = 90° per turn (one turn = cycles_per_turn cycles)").
func (c Config) ComponentConfig() component.Config {
	return component.Config{
		RotationDegPerCycle: c.DriveRotationPerTurn / float64(c.CyclesPerTurn),
		AccelPerCycle:       c.AccelPerCycle,
		MaxVelocity:         c.MaxVelocity,
		ScanFOVDegrees:      c.ScannerFOVDegrees,
		ScanRange:           c.ArenaDiagonal(),
		FirePowerCost:       c.FirePowerCost,
		FireCooldownCycles:  c.FireCooldownCycles,
	}
}

// ArenaDiagonal is the scanner's range per spec.md §4.3 ("range = arena
// diagonal").
func (c Config) ArenaDiagonal() float64 {
	return math.Hypot(c.ArenaWidth, c.ArenaHeight)
}
