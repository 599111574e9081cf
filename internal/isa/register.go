package isa

import "strings"

// RegId identifies one cell in the VM's register file. Registers are laid
// out in four disjoint groups (general, status, robot, component-status),
// mirroring the teacher's flat registers[32] array indexed by a compact id
// rather than per-register fields.
type RegId int

const (
	RegNone RegId = iota

	// General data: read/write from program.
	RegD0
	RegD1
	RegD2
	RegD3
	RegD4
	RegD5
	RegD6
	RegD7
	RegD8
	RegD9
	RegD10
	RegD11
	RegD12
	RegD13
	RegD14
	RegD15
	RegD16
	RegD17
	RegD18
	RegCounter // c
	RegIndex   // index
	RegResult  // result

	// Status: read-only from program, written by the scheduler.
	RegFault
	RegTurn
	RegCycle
	RegRand

	// Robot: read-only from program, written by component/arena subsystems.
	RegHealth
	RegPower
	RegPosX
	RegPosY
	RegComponent

	// Component status: read-only, refreshed from the Drive and Turret
	// state before each cycle's instruction fetch, whichever component is
	// selected.
	RegDriveDirection
	RegDriveVelocity
	RegTurretDirection
	RegForwardDistance
	RegBackwardDistance
	RegWeaponPower
	RegWeaponCooldown
	RegTargetDistance
	RegTargetDirection

	regCount
)

// NumRegisters is the fixed size of the VM's register file.
const NumRegisters = int(regCount)

var regNames = map[RegId]string{
	RegD0: "d0", RegD1: "d1", RegD2: "d2", RegD3: "d3", RegD4: "d4",
	RegD5: "d5", RegD6: "d6", RegD7: "d7", RegD8: "d8", RegD9: "d9",
	RegD10: "d10", RegD11: "d11", RegD12: "d12", RegD13: "d13", RegD14: "d14",
	RegD15: "d15", RegD16: "d16", RegD17: "d17", RegD18: "d18",
	RegCounter: "c", RegIndex: "index", RegResult: "result",

	RegFault: "fault", RegTurn: "turn", RegCycle: "cycle", RegRand: "rand",

	RegHealth: "health", RegPower: "power", RegPosX: "pos_x", RegPosY: "pos_y",
	RegComponent: "component",

	RegDriveDirection:   "drive_direction",
	RegDriveVelocity:    "drive_velocity",
	RegTurretDirection:  "turret_direction",
	RegForwardDistance:  "forward_distance",
	RegBackwardDistance: "backward_distance",
	RegWeaponPower:      "weapon_power",
	RegWeaponCooldown:   "weapon_cooldown",
	RegTargetDistance:   "target_distance",
	RegTargetDirection:  "target_direction",
}

// regAliases maps alternate spellings onto their canonical register, per
// spec.md §6.1 ("Aliases: @posx/@pos_x, @posy/@pos_y, ...").
var regAliases = map[string]RegId{
	"posx": RegPosX,
	"posy": RegPosY,
}

var nameToReg map[string]RegId

func init() {
	nameToReg = make(map[string]RegId, len(regNames)+len(regAliases))
	for id, name := range regNames {
		nameToReg[name] = id
	}
	for alias, id := range regAliases {
		nameToReg[alias] = id
	}
}

// String returns the canonical lowercase register name, as used by the
// disassembler.
func (r RegId) String() string {
	if name, ok := regNames[r]; ok {
		return name
	}
	return "?reg?"
}

// LookupRegister resolves a register name (case-insensitive, with leading
// '@' already stripped) to its RegId. Returns false if unknown.
func LookupRegister(name string) (RegId, bool) {
	id, ok := nameToReg[strings.ToLower(name)]
	return id, ok
}

// Writable reports whether program code may write this register directly
// via mov/pop/lod. Only the general-data group qualifies; status, robot and
// component-status registers are written solely by the scheduler/component
// subsystems (component itself is written only by select/deselect, which
// bypass the normal writable-operand check entirely).
func (r RegId) Writable() bool {
	return r >= RegD0 && r <= RegResult
}

// IsComponentStatus reports whether r belongs to the component-status group
// that gets refreshed from the Drive and Turret state each cycle.
func (r RegId) IsComponentStatus() bool {
	return r >= RegDriveDirection && r <= RegTargetDirection
}
