package arena

import (
	"fmt"
	"io"
	"math"

	"github.com/google/uuid"

	"robotbattle/internal/arenaquery"
	"robotbattle/internal/isa"
)

// pendingIntent is one cycle's collected component intent, held until the
// tick driver's per-cycle arena-resolution step (spec.md §4.4 step 1b).
type pendingIntent struct {
	robot  *Robot
	intent *arenaquery.Intent
}

// Match runs one robot battle to completion: a fixed roster of robots in
// stable id order, ticked per-cycle rather than per-turn so no robot's
// multi-cycle instruction gives it an informational edge within a turn
// (spec.md §4.4 rationale). ID correlates a match's log/replay output
// across a run, the same role the teacher's InteractionID plays for
// correlating a single hardware-device exchange (vm/devices.go).
type Match struct {
	ID     string
	Config Config
	Robots []*Robot
	Turn   int

	observer io.Writer
	query    *simpleQuery
	pending  []pendingIntent
}

// NewMatch assembles one Robot per program, seeds their PRNGs from seed
// XOR robot id, and places them evenly around a circle inscribed in the
// arena (a placement choice of this reference implementation, not a
// spec.md requirement — full obstacle-aware spawn placement is an arena
// concern out of scope per spec.md §1).
func NewMatch(cfg Config, programs []*isa.Program, seed int64, observer io.Writer) *Match {
	m := &Match{
		ID:       uuid.New().String(),
		Config:   cfg,
		observer: observer,
	}
	m.query = &simpleQuery{match: m}

	cx, cy := cfg.ArenaWidth/2, cfg.ArenaHeight/2
	radius := math.Min(cfg.ArenaWidth, cfg.ArenaHeight) * 0.4
	n := len(programs)
	for i, prog := range programs {
		angle := 360 * float64(i) / float64(n)
		rad := angle * math.Pi / 180
		x := cx + radius*math.Cos(rad)
		y := cy + radius*math.Sin(rad)
		heading := normalizeAngle(angle + 180)
		m.Robots = append(m.Robots, newRobot(i, prog, seed, cfg, m.query, observer, x, y, heading))
	}
	return m
}

// AliveCount reports how many robots currently have health > 0.
func (m *Match) AliveCount() int {
	n := 0
	for _, r := range m.Robots {
		if r.VM.Alive() {
			n++
		}
	}
	return n
}

// Run drives the match to completion: one survivor, or turn >= MaxTurns
// (spec.md §4.4 step 2).
func (m *Match) Run() {
	for m.Turn = 0; m.Turn < m.Config.MaxTurns && m.AliveCount() > 1; m.Turn++ {
		for cycle := 0; cycle < m.Config.CyclesPerTurn; cycle++ {
			m.stepCycle(cycle)
		}
		if m.observer != nil {
			fmt.Fprintf(m.observer, "match %s turn %d: %d robot(s) alive\n", m.ID, m.Turn, m.AliveCount())
		}
	}
}

// stepCycle performs one arena cycle: every robot's VM ticks in stable id
// order and advances its components (spec.md §4.4 step 1a), then the
// arena resolves whatever intents committed this cycle and integrates
// motion (step 1b).
func (m *Match) stepCycle(cycle int) {
	for _, r := range m.Robots {
		if !r.VM.Alive() {
			continue
		}
		intent, _ := r.VM.Tick(m.Turn, cycle)
		r.VM.AdvanceComponents()
		if intent != nil && intent.Kind != arenaquery.IntentNone {
			m.pending = append(m.pending, pendingIntent{robot: r, intent: intent})
		}
	}

	for _, r := range m.Robots {
		if !r.VM.Alive() {
			continue
		}
		m.integrateMotion(r)
	}

	for _, p := range m.pending {
		m.resolveIntent(p)
	}
	m.pending = m.pending[:0]
}

func (m *Match) integrateMotion(r *Robot) {
	rad := r.VM.DriveDirection() * math.Pi / 180
	v := r.VM.DriveVelocity()
	x := clampf(r.VM.PosX()+math.Cos(rad)*v, 0, m.Config.ArenaWidth)
	y := clampf(r.VM.PosY()+math.Sin(rad)*v, 0, m.Config.ArenaHeight)
	r.VM.SetPose(x, y)
}

// resolveIntent applies a single cycle's fire/attack intent. Two fire
// commits in the same cycle are processed in m.pending's append order,
// which follows the robots' stable id order (spec.md §5 "resolved by the
// arena using robot id as tie-breaker").
func (m *Match) resolveIntent(p pendingIntent) {
	switch p.intent.Kind {
	case arenaquery.IntentFire:
		target := m.nearestInCone(p.robot, p.robot.VM.TurretDirection(), m.Config.ScannerFOVDegrees, m.Config.ArenaDiagonal())
		if target != nil {
			damage := p.intent.Value * m.Config.FireDamagePerPower
			target.VM.SetHealth(math.Max(0, target.VM.Health()-damage))
		}
	case arenaquery.IntentAttack:
		target := m.nearestInCone(p.robot, p.robot.VM.TurretDirection(), m.Config.MeleeFOV, m.Config.MeleeRange)
		if target != nil {
			target.VM.SetHealth(math.Max(0, target.VM.Health()-m.Config.MeleeDamage))
		}
	}
}

func (m *Match) nearestInCone(attacker *Robot, headingDeg, fovDeg, rangeLimit float64) *Robot {
	var best *Robot
	bestDist := math.Inf(1)
	for _, r := range m.Robots {
		if r.ID == attacker.ID || !r.VM.Alive() {
			continue
		}
		dx, dy := r.VM.PosX()-attacker.VM.PosX(), r.VM.PosY()-attacker.VM.PosY()
		dist := math.Hypot(dx, dy)
		if dist > rangeLimit || dist >= bestDist {
			continue
		}
		bearing := normalizeAngle(math.Atan2(dy, dx) * 180 / math.Pi)
		if angularDelta(bearing, headingDeg) > fovDeg/2 {
			continue
		}
		bestDist = dist
		best = r
	}
	return best
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
