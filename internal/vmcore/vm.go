// Package vmcore implements the deterministic fetch/execute/commit engine
// of spec.md §4.2: the register file, 1024-cell memory, bounded data and
// call stacks, and the per-cycle Tick() contract that drives a robot's
// three component state machines. Grounded on the teacher's VM struct and
// execInstructions tight-loop switch (vm/vm.go), generalized from the
// teacher's immediate-effect byte interpreter to one that honors a
// per-instruction cycle budget before any state becomes visible.
package vmcore

import (
	"fmt"
	"io"
	"math/rand"

	"robotbattle/internal/arenaquery"
	"robotbattle/internal/component"
	"robotbattle/internal/isa"
)

// Limits carries the arena-configured resource caps a VM enforces (spec.md
// §6.3). Kept separate from arena.Config so this package never imports the
// arena package (which depends on vmcore, not the other way around).
type Limits struct {
	MemorySize         int
	MaxStackDepth      int
	MaxCallDepth       int
	PowerRegenPerCycle float64
	MaxPower           float64
	StartingHealth     float64
}

// VM is one robot's virtual machine: its own registers, memory, stacks,
// and the Drive/Turret components it mediates by value (Design Notes: "the
// VM holds components by value and mediates; no back-pointers").
type VM struct {
	RobotID int

	Regs   [isa.NumRegisters]float64
	Memory []float64

	stack     *boundedStack[float64]
	callStack *boundedStack[int]

	Program *isa.Program
	ip      int

	cur             isa.Instruction
	cyclesRemaining int
	inFlight        bool

	halted   bool
	finished bool

	rng *rand.Rand

	Drive  component.Drive
	Turret component.Turret

	ComponentCfg component.Config
	Limits       Limits

	Query    arenaquery.Query
	Observer io.Writer
}

// New constructs a VM for one robot's assembled program. seed combined with
// robotID (XOR, per spec.md §5 "seeded from the match seed combined with
// robot id") determinizes the per-VM PRNG feeding `rand`.
func New(program *isa.Program, robotID int, seed int64, query arenaquery.Query, limits Limits, ccfg component.Config, observer io.Writer) *VM {
	vm := &VM{
		RobotID:      robotID,
		Memory:       make([]float64, limits.MemorySize),
		stack:        newBoundedStack[float64](limits.MaxStackDepth),
		callStack:    newBoundedStack[int](limits.MaxCallDepth),
		Program:      program,
		rng:          rand.New(rand.NewSource(seed ^ int64(robotID))),
		ComponentCfg: ccfg,
		Limits:       limits,
		Query:        query,
		Observer:     observer,
	}
	vm.Regs[isa.RegHealth] = limits.StartingHealth
	vm.Regs[isa.RegPower] = limits.MaxPower
	return vm
}

// Halted reports whether a runtime fault has permanently stopped this VM.
func (vm *VM) Halted() bool { return vm.halted }

// Finished reports whether the VM ran past the end of its program (not a
// fault: the robot simply has no more instructions to execute).
func (vm *VM) Finished() bool { return vm.finished }

// FaultCode reports the fault that halted the VM, or FaultNone if it
// hasn't faulted.
func (vm *VM) FaultCode() FaultCode {
	return FaultCode(vm.Regs[isa.RegFault])
}

// SetPose lets the arena write this robot's position, called between
// cycles per spec.md §5 ("all mutations ... happen in the arena subsystem
// between cycles").
func (vm *VM) SetPose(x, y float64) {
	vm.Regs[isa.RegPosX] = x
	vm.Regs[isa.RegPosY] = y
}

// SetHealth lets the arena apply damage between cycles.
func (vm *VM) SetHealth(h float64) {
	vm.Regs[isa.RegHealth] = h
}

// Tick performs exactly one cycle of work (spec.md §4.2 steps 1-5): refresh
// component-status registers, advance the scheduler-owned status
// registers, and either continue an in-flight instruction or fetch and
// commit the next one. Returns the component intent emitted by this
// cycle's commit, if any, and a non-nil error only when that commit
// faulted (in which case the VM is now permanently halted).
func (vm *VM) Tick(turn, cycle int) (*arenaquery.Intent, error) {
	if vm.halted || vm.finished {
		return nil, nil
	}

	vm.refreshComponentStatus()
	vm.Regs[isa.RegTurn] = float64(turn)
	vm.Regs[isa.RegCycle] = float64(cycle)
	vm.Regs[isa.RegRand] = vm.rng.Float64()

	if !vm.inFlight {
		if vm.ip < 0 || vm.ip >= len(vm.Program.Instructions) {
			vm.finished = true
			return nil, nil
		}
		vm.cur = vm.Program.Instructions[vm.ip]
		vm.cyclesRemaining = vm.fetchCost(vm.cur)
		vm.inFlight = true
	}

	vm.cyclesRemaining--
	if vm.cyclesRemaining > 0 {
		return nil, nil
	}
	vm.inFlight = false

	jumped, intent, ferr := vm.commit(vm.cur)
	if ferr != nil {
		vm.Regs[isa.RegFault] = float64(ferr.Code)
		vm.halted = true
		return nil, ferr
	}
	if !jumped {
		vm.ip++
	}
	return intent, nil
}

// AdvanceComponents integrates the Drive/Turret state machines by one
// cycle and applies power regeneration. Called by the tick driver
// immediately after Tick (spec.md §4.4 step 1a: "call VM tick(); advance
// its component state machines by one cycle" — a step separate from
// tick()'s own fetch/commit contract).
func (vm *VM) AdvanceComponents() {
	vm.Drive.Advance(vm.ComponentCfg)
	vm.Turret.Advance(vm.ComponentCfg)
	vm.Regs[isa.RegPower] = minf(vm.Limits.MaxPower, vm.Regs[isa.RegPower]+vm.Limits.PowerRegenPerCycle)
}

func (vm *VM) refreshComponentStatus() {
	vm.Regs[isa.RegDriveDirection] = vm.Drive.Direction
	vm.Regs[isa.RegDriveVelocity] = vm.Drive.Velocity
	vm.Regs[isa.RegTurretDirection] = vm.Turret.Direction
	vm.Regs[isa.RegWeaponPower] = vm.Regs[isa.RegPower]
	vm.Regs[isa.RegWeaponCooldown] = float64(vm.Turret.WeaponCooldown)
	vm.Regs[isa.RegTargetDistance] = vm.Turret.TargetDistance
	vm.Regs[isa.RegTargetDirection] = vm.Turret.TargetDirection

	if vm.Query != nil {
		fwd, bwd := vm.Query.Clearance(vm.RobotID, vm.Regs[isa.RegPosX], vm.Regs[isa.RegPosY], vm.Drive.Direction)
		vm.Regs[isa.RegForwardDistance] = fwd
		vm.Regs[isa.RegBackwardDistance] = bwd
	}
}

// fetchCost resolves an instruction's cycle cost at fetch time. Every
// mnemonic but sleep carries a fixed cost from assembly; sleep's operand
// may be register-sourced, so its true cost can only be known once fetched
// (spec.md §4.2 "variable | sleep N — costs N cycles", §9 "sleep 0 is a
// 1-cycle nop").
func (vm *VM) fetchCost(ins isa.Instruction) int {
	if ins.Mnemonic != isa.MnemSleep {
		return ins.Cost
	}
	n := int(vm.readValue(ins.Op1))
	if n < 1 {
		n = 1
	}
	return n
}

func (vm *VM) readValue(op isa.Operand) float64 {
	switch op.Kind {
	case isa.OperandImmediate:
		return op.Imm
	case isa.OperandRegister:
		return vm.Regs[op.Reg]
	default:
		return 0
	}
}

func (vm *VM) debugLine(val float64) string {
	return fmt.Sprintf("robot %d turn %.0f cycle %.0f: %g",
		vm.RobotID, vm.Regs[isa.RegTurn], vm.Regs[isa.RegCycle], val)
}

// PosX, PosY, Health, Power, DriveDirection and DriveVelocity give the
// arena read access to exactly the robot state it needs to integrate
// motion and resolve damage between cycles, without exposing the whole
// register file.
func (vm *VM) PosX() float64            { return vm.Regs[isa.RegPosX] }
func (vm *VM) PosY() float64            { return vm.Regs[isa.RegPosY] }
func (vm *VM) Health() float64          { return vm.Regs[isa.RegHealth] }
func (vm *VM) Power() float64           { return vm.Regs[isa.RegPower] }
func (vm *VM) Alive() bool              { return vm.Regs[isa.RegHealth] > 0 }
func (vm *VM) DriveDirection() float64  { return vm.Drive.Direction }
func (vm *VM) DriveVelocity() float64   { return vm.Drive.Velocity }
func (vm *VM) TurretDirection() float64 { return vm.Turret.Direction }

// IP returns the current instruction pointer, mainly useful for debug
// tooling (breakpoints, state dumps).
func (vm *VM) IP() int { return vm.ip }

// StackDepth returns the current data stack depth, mainly useful for
// tests asserting a program leaves the stack unchanged/empty.
func (vm *VM) StackDepth() int { return vm.stack.len() }

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
