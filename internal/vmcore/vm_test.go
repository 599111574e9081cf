package vmcore

import (
	"testing"

	"robotbattle/internal/arenaquery"
	"robotbattle/internal/asm"
	"robotbattle/internal/component"
	"robotbattle/internal/isa"
)

// assert mirrors the teacher's vm/vm_test.go helper of the same name.
func assert(t *testing.T, cond bool, format string, args ...any) {
	t.Helper()
	if !cond {
		t.Fatalf(format, args...)
	}
}

// noQuery is a Query that finds nothing and reports unbounded clearance,
// enough for tests that don't exercise scan/clearance directly.
type noQuery struct{}

func (noQuery) Clearance(int, float64, float64, float64) (float64, float64) { return 1e9, 1e9 }
func (noQuery) Scan(int, float64, float64, float64, float64, float64) arenaquery.ScanResult {
	return arenaquery.ScanResult{}
}

var testLimits = Limits{
	MemorySize:         1024,
	MaxStackDepth:       256,
	MaxCallDepth:        10,
	PowerRegenPerCycle:  0.01,
	MaxPower:            1.0,
	StartingHealth:      100,
}

var testComponentCfg = component.Config{
	RotationDegPerCycle: 0.9,
	AccelPerCycle:       0.5,
	MaxVelocity:         5,
	ScanFOVDegrees:      22.5,
	ScanRange:           1000,
	FirePowerCost:       0.5,
	FireCooldownCycles:  20,
}

func buildVM(t *testing.T, source string) *VM {
	t.Helper()
	prog, err := asm.Assemble(source, asm.Config{ArenaWidth: 1000, ArenaHeight: 1000})
	assert(t, err == nil, "assemble failed: %v", err)
	return New(prog, 0, 1, noQuery{}, testLimits, testComponentCfg, nil)
}

// runUntilIdle ticks vm until it halts, finishes, or n ticks elapse.
func runUntilIdle(vm *VM, n int) {
	for i := 0; i < n; i++ {
		if vm.halted || vm.finished {
			return
		}
		vm.Tick(0, i)
	}
}

func TestArithmeticStackForm(t *testing.T) {
	vm := buildVM(t, "push 3.0\npush 4.0\nadd\npop @d0\n")
	runUntilIdle(vm, 4)
	assert(t, vm.Regs[isa.RegD0] == 7.0, "want d0==7, got %v", vm.Regs[isa.RegD0])
	assert(t, vm.StackDepth() == 0, "want empty stack, got depth %d", vm.StackDepth())
}

func TestOperandFormResult(t *testing.T) {
	vm := buildVM(t, "mov @d0 10\nsub @d0 3\n")
	runUntilIdle(vm, 2)
	assert(t, vm.Regs[isa.RegD0] == 10, "want d0==10, got %v", vm.Regs[isa.RegD0])
	assert(t, vm.Regs[isa.RegResult] == 7, "want result==7, got %v", vm.Regs[isa.RegResult])
	assert(t, vm.StackDepth() == 0, "want stack unchanged (empty), got depth %d", vm.StackDepth())
}

func TestCycleAccounting(t *testing.T) {
	vm := buildVM(t, "fire 1.0\nnop\n")
	vm.Regs[isa.RegComponent] = float64(arenaquery.ComponentTurret)

	intent, _ := vm.Tick(0, 0)
	assert(t, intent == nil && vm.IP() == 0, "tick1: want ip=0 no intent")
	intent, _ = vm.Tick(0, 1)
	assert(t, intent == nil && vm.IP() == 0, "tick2: want ip=0 no intent")
	intent, _ = vm.Tick(0, 2)
	assert(t, intent != nil, "tick3: want fire intent emitted")
	assert(t, vm.IP() == 1, "after tick3 commit: want ip=1, got %d", vm.IP())

	vm.Tick(0, 3)
	assert(t, vm.IP() == 2, "after tick4 commit: want ip=2, got %d", vm.IP())
}

func TestBitwiseAnd(t *testing.T) {
	vm := buildVM(t, "push 42.0\npush 8.0\nand\npop @d0\n")
	runUntilIdle(vm, 4)
	assert(t, vm.Regs[isa.RegD0] == 8.0, "want d0==8, got %v", vm.Regs[isa.RegD0])
}

func TestShiftClamp(t *testing.T) {
	vm := buildVM(t, "push 1.0\npush 64.0\nshl\npop @d0\n")
	runUntilIdle(vm, 4)
	assert(t, vm.Regs[isa.RegD0] == 2147483648.0, "want d0==2147483648, got %v", vm.Regs[isa.RegD0])
}

func TestCallDepthFault(t *testing.T) {
	vm := buildVM(t, "loop:\ncall loop\n")
	runUntilIdle(vm, 1000)
	assert(t, vm.Halted(), "want VM halted on call-stack overflow")
	assert(t, vm.FaultCode() == FaultCallStackOverflow, "want call-stack-overflow fault, got %v", vm.FaultCode())
	assert(t, vm.IP() == 0, "want ip to halt at the failing call, got %d", vm.IP())
}

func TestMemoryWrap(t *testing.T) {
	vm := buildVM(t, "mov @index 1023\nsto 1.0\nlod @d0\n")
	runUntilIdle(vm, 3)
	assert(t, vm.Memory[1023] == 1.0, "want memory[1023]==1, got %v", vm.Memory[1023])
	assert(t, vm.Regs[isa.RegIndex] == 1024, "want index==1024, got %v", vm.Regs[isa.RegIndex])

	runUntilIdle(vm, 1)
	assert(t, vm.Halted(), "want VM halted on out-of-range lod")
	assert(t, vm.FaultCode() == FaultMemoryOutOfRange, "want memory-out-of-range fault, got %v", vm.FaultCode())
}

func TestDivisionByZeroFaults(t *testing.T) {
	vm := buildVM(t, "push 1.0\npush 0.0\ndiv\n")
	runUntilIdle(vm, 10)
	assert(t, vm.Halted(), "want VM halted on division by zero")
	assert(t, vm.FaultCode() == FaultDivisionByZero, "want division-by-zero fault, got %v", vm.FaultCode())
}

func TestPushPopRoundTrip(t *testing.T) {
	vm := buildVM(t, "push 12.5\npop @d0\n")
	runUntilIdle(vm, 2)
	assert(t, vm.Regs[isa.RegD0] == 12.5, "want d0==12.5, got %v", vm.Regs[isa.RegD0])
	assert(t, vm.StackDepth() == 0, "want empty stack, got depth %d", vm.StackDepth())
}

func TestDupPopRoundTrip(t *testing.T) {
	vm := buildVM(t, "push 9.0\ndup\npop @d0\n")
	runUntilIdle(vm, 3)
	assert(t, vm.Regs[isa.RegD0] == 9.0, "want d0==9, got %v", vm.Regs[isa.RegD0])
	assert(t, vm.StackDepth() == 1, "want one value left on stack, got depth %d", vm.StackDepth())
}

func TestSwapSwapIsIdentity(t *testing.T) {
	vm := buildVM(t, "push 1.0\npush 2.0\nswap\nswap\npop @d0\npop @d1\n")
	runUntilIdle(vm, 6)
	assert(t, vm.Regs[isa.RegD0] == 2.0, "want d0==2, got %v", vm.Regs[isa.RegD0])
	assert(t, vm.Regs[isa.RegD1] == 1.0, "want d1==1, got %v", vm.Regs[isa.RegD1])
}

func TestComponentMismatchStillCostsCycle(t *testing.T) {
	vm := buildVM(t, "rotate 10.0\nnop\n")
	// No component selected: rotate should consume its cycles but commit
	// no intent and leave Drive/Turret untouched.
	intent, _ := vm.Tick(0, 0)
	assert(t, intent == nil, "tick1: no intent yet")
	vm.Tick(0, 1)
	intent, _ = vm.Tick(0, 2)
	assert(t, intent == nil, "rotate with no component selected must emit no intent")
	assert(t, vm.IP() == 1, "rotate must still advance ip after its 3-cycle cost, got %d", vm.IP())
	assert(t, vm.Drive.DesiredDirection == 0, "drive must be untouched when no component selected")
}

func TestSleepZeroIsOneCycleNop(t *testing.T) {
	vm := buildVM(t, "sleep 0\nnop\n")
	vm.Tick(0, 0)
	assert(t, vm.IP() == 1, "sleep 0 must cost exactly one cycle, got ip=%d", vm.IP())
}

func TestNaNCompareFaults(t *testing.T) {
	// sqrt of a negative operand writes NaN into result without tripping
	// division-by-zero; the subsequent conditional jump must fault instead
	// of silently taking (or not taking) the branch.
	vm := buildVM(t, "mov @d0 -1\nsqrt @d0\njz done\ndone:\nnop\n")
	runUntilIdle(vm, 10)
	assert(t, vm.Halted(), "want VM halted on NaN conditional-jump comparison")
	assert(t, vm.FaultCode() == FaultNaNCompare, "want NaN-compare fault, got %v", vm.FaultCode())
}
