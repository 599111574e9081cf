package component

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDriveAdvanceRespectsRates(t *testing.T) {
	cfg := Config{RotationDegPerCycle: 1, AccelPerCycle: 0.5, MaxVelocity: 2}
	d := Drive{DesiredDirection: 10, DesiredVelocity: 5}

	for i := 0; i < 20; i++ {
		d.Advance(cfg)
	}

	require.InDelta(t, 10, d.Direction, 1e-9)
	require.InDelta(t, 2, d.Velocity, 1e-9, "velocity must clamp at MaxVelocity even though DesiredVelocity exceeds it")
}

func TestDriveAdvanceTakesShortestAngularPath(t *testing.T) {
	cfg := Config{RotationDegPerCycle: 10}
	d := Drive{Direction: 350, DesiredDirection: 10}
	d.Advance(cfg)
	require.InDelta(t, 0, d.Direction, 1e-9, "350 -> 10 is a 20 degree turn through 0, not 340 the other way")
}

func TestTurretCooldownTicksDown(t *testing.T) {
	cfg := Config{FireCooldownCycles: 3}
	tu := Turret{}
	tu.Fire(cfg)
	require.False(t, tu.CanFire())

	tu.Advance(cfg)
	tu.Advance(cfg)
	require.False(t, tu.CanFire())

	tu.Advance(cfg)
	require.True(t, tu.CanFire())
}
