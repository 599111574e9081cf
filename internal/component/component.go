// Package component implements the three per-robot state machines
// (spec.md §4.3): Drive, and the Turret's Scanner and Weapon sub-machines.
// Each advances exactly one simulation cycle per VM tick, driven by the
// intents the VM's component opcodes commit. Generalized from the
// teacher's HardwareDevice interface (vm/devices.go): where the teacher's
// devices answer TrySend(command, data) and report GetInfo(), these
// machines expose plain fields the VM mediates directly, since the VM
// holds them by value rather than behind an interface boundary (Design
// Notes: "the VM holds components by value and mediates; no
// back-pointers").
package component

// Config carries the tunables a component's Advance needs. Populated from
// arena configuration (spec.md §6.3); never mutated by a component itself.
type Config struct {
	RotationDegPerCycle float64
	AccelPerCycle       float64
	MaxVelocity         float64
	ScanFOVDegrees      float64
	ScanRange           float64
	FirePowerCost       float64
	FireCooldownCycles  int
}

// Drive is component id 1: direction/velocity motion toward a desired
// heading and speed, under per-cycle rate limits (spec.md §4.3).
type Drive struct {
	Direction        float64
	Velocity         float64
	DesiredDirection float64
	DesiredVelocity  float64
}

// Advance moves Direction toward DesiredDirection and Velocity toward
// DesiredVelocity by at most one cycle's worth of rate, clamping velocity
// magnitude to MaxVelocity.
func (d *Drive) Advance(cfg Config) {
	d.Direction = stepAngleToward(d.Direction, d.DesiredDirection, cfg.RotationDegPerCycle)
	target := clamp(d.DesiredVelocity, -cfg.MaxVelocity, cfg.MaxVelocity)
	d.Velocity = stepToward(d.Velocity, target, cfg.AccelPerCycle)
}

// Turret is component id 2: a shared-direction mount hosting the Scanner
// and Weapon sub-machines.
type Turret struct {
	Direction        float64
	DesiredDirection float64

	TargetDistance  float64
	TargetDirection float64

	WeaponCooldown int
}

// Advance moves Direction toward DesiredDirection by at most one cycle's
// worth of rotation and ticks the weapon cooldown down by one cycle.
func (t *Turret) Advance(cfg Config) {
	t.Direction = stepAngleToward(t.Direction, t.DesiredDirection, cfg.RotationDegPerCycle)
	if t.WeaponCooldown > 0 {
		t.WeaponCooldown--
	}
}

// CanFire reports whether the weapon's cooldown allows a fire commit this
// cycle. Power sufficiency is checked by the caller, which owns the
// robot's power register.
func (t *Turret) CanFire() bool {
	return t.WeaponCooldown == 0
}

// Fire applies a successful fire commit's cooldown effect.
func (t *Turret) Fire(cfg Config) {
	t.WeaponCooldown = cfg.FireCooldownCycles
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func stepToward(cur, target, maxDelta float64) float64 {
	diff := target - cur
	if diff > maxDelta {
		diff = maxDelta
	} else if diff < -maxDelta {
		diff = -maxDelta
	}
	return cur + diff
}

// stepAngleToward moves cur toward target by at most maxDelta degrees,
// taking the shorter way around the circle, and normalizes the result into
// [0, 360).
func stepAngleToward(cur, target, maxDelta float64) float64 {
	diff := normalizeAngleDelta(target - cur)
	if diff > maxDelta {
		diff = maxDelta
	} else if diff < -maxDelta {
		diff = -maxDelta
	}
	return normalizeAngle(cur + diff)
}

// normalizeAngleDelta folds a degree difference into (-180, 180].
func normalizeAngleDelta(d float64) float64 {
	for d > 180 {
		d -= 360
	}
	for d <= -180 {
		d += 360
	}
	return d
}

// normalizeAngle folds a degree value into [0, 360).
func normalizeAngle(a float64) float64 {
	for a < 0 {
		a += 360
	}
	for a >= 360 {
		a -= 360
	}
	return a
}
