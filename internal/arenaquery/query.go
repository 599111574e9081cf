// Package arenaquery defines the read-only boundary between the robot
// control pipeline (assembler + VM + components) and the arena simulator
// that owns rendering, obstacle placement, projectile physics, and hit
// resolution. Those concerns are explicitly out of scope (spec.md §1); this
// package is the narrow contract the core consumes (Query) and produces
// (Intent) across that boundary.
package arenaquery

// ScanResult is what a turret scan reports: either nothing (Found=false)
// or the nearest robot within the scan cone.
type ScanResult struct {
	Found        bool
	Distance     float64
	DirectionDeg float64
}

// Query is the immutable view of arena state a VM's components consult at
// commit time: forward/backward obstacle clearance along a heading, and
// the nearest-robot-in-cone scan result. Implementations are owned and
// driven by the arena simulator; the core never mutates arena state
// directly (spec.md §5 "the arena query interface is read-only from the
// VM side").
type Query interface {
	// Clearance reports the distance to the nearest obstruction ahead of
	// and behind robotID, given its current position and drive heading.
	Clearance(robotID int, x, y, headingDeg float64) (forward, backward float64)

	// Scan reports the nearest other robot within the cone centered on
	// headingDeg with the given field of view and range, or ScanResult{}
	// if none is in view.
	Scan(robotID int, x, y, headingDeg, fovDeg, rangeLimit float64) ScanResult
}

// IntentKind tags the payload of an Intent.
type IntentKind int

const (
	IntentNone IntentKind = iota
	IntentSelect
	IntentDeselect
	IntentRotate
	IntentDrive
	IntentFire
	IntentScan
	IntentAttack
	IntentDebug
)

// ComponentID identifies a robot subsystem. 0 means "no component" (as in
// spec.md §3's `component` register: "0 means none").
type ComponentID int

const (
	ComponentNone  ComponentID = 0
	ComponentDrive ComponentID = 1
	ComponentTurret ComponentID = 2
)

// Intent is the single component command a VM may emit when an instruction
// commits (spec.md §6.2): at most one per cycle, carrying the component it
// targets and a payload value whose meaning depends on Kind (rotation
// delta in degrees, target velocity, fire power fraction, or a debug
// value).
type Intent struct {
	Component ComponentID
	Kind      IntentKind
	Value     float64
}
