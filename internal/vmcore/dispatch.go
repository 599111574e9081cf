package vmcore

import (
	"fmt"
	"math"

	"robotbattle/internal/arenaquery"
	"robotbattle/internal/isa"
)

// commit applies ins's state effects atomically, the moment its cycle
// budget reaches zero (spec.md §4.2 step 4). Dispatch is a flat switch
// keyed on the tagged Mnemonic, per Design Notes ("avoid per-opcode
// virtual/polymorphic dispatch; a flat switch performs and inlines well"),
// generalized from the teacher's Bytecode-keyed execInstructions switch
// (vm/vm.go).
func (vm *VM) commit(ins isa.Instruction) (jumped bool, intent *arenaquery.Intent, ferr *faultError) {
	switch ins.Mnemonic {

	case isa.MnemPush:
		ferr = vm.stack.push(vm.readValue(ins.Op1), FaultStackOverflow)

	case isa.MnemPop:
		var v float64
		v, ferr = vm.stack.pop(FaultStackUnderflow)
		if ferr == nil && !ins.Op1.IsNone() {
			vm.Regs[ins.Op1.Reg] = v
		}

	case isa.MnemDup:
		var v float64
		v, ferr = vm.stack.peek(FaultStackUnderflow)
		if ferr == nil {
			ferr = vm.stack.push(v, FaultStackOverflow)
		}

	case isa.MnemSwap:
		var a, b float64
		a, ferr = vm.stack.pop(FaultStackUnderflow)
		if ferr == nil {
			b, ferr = vm.stack.pop(FaultStackUnderflow)
		}
		if ferr == nil {
			ferr = vm.stack.push(a, FaultStackOverflow)
		}
		if ferr == nil {
			ferr = vm.stack.push(b, FaultStackOverflow)
		}

	case isa.MnemMov:
		vm.Regs[ins.Op1.Reg] = vm.readValue(ins.Op2)

	case isa.MnemCmp:
		vm.Regs[isa.RegResult] = vm.readValue(ins.Op1) - vm.readValue(ins.Op2)

	case isa.MnemLod:
		var v float64
		v, ferr = vm.memLoad()
		if ferr == nil {
			vm.Regs[ins.Op1.Reg] = v
		}

	case isa.MnemSto:
		ferr = vm.memStore(vm.readValue(ins.Op1))

	case isa.MnemAdd:
		ferr = vm.binaryArith(ins, func(a, b float64) (float64, *faultError) { return a + b, nil })
	case isa.MnemSub:
		ferr = vm.binaryArith(ins, func(a, b float64) (float64, *faultError) { return a - b, nil })
	case isa.MnemMul:
		ferr = vm.binaryArith(ins, func(a, b float64) (float64, *faultError) { return a * b, nil })
	case isa.MnemDiv:
		ferr = vm.binaryArith(ins, func(a, b float64) (float64, *faultError) {
			if b == 0 {
				return 0, fault(FaultDivisionByZero)
			}
			return a / b, nil
		})
	case isa.MnemMod:
		ferr = vm.binaryArith(ins, func(a, b float64) (float64, *faultError) {
			if b == 0 {
				return 0, fault(FaultDivisionByZero)
			}
			return math.Mod(a, b), nil
		})
	case isa.MnemPow:
		ferr = vm.binaryArith(ins, func(a, b float64) (float64, *faultError) { return math.Pow(a, b), nil })
	case isa.MnemAtan2:
		ferr = vm.binaryArith(ins, func(a, b float64) (float64, *faultError) { return math.Atan2(a, b), nil })

	case isa.MnemDivmod:
		var a, b float64
		b, ferr = vm.stack.pop(FaultStackUnderflow)
		if ferr == nil {
			a, ferr = vm.stack.pop(FaultStackUnderflow)
		}
		if ferr == nil {
			if b == 0 {
				ferr = fault(FaultDivisionByZero)
			} else {
				ferr = vm.stack.push(a/b, FaultStackOverflow)
				if ferr == nil {
					ferr = vm.stack.push(math.Mod(a, b), FaultStackOverflow)
				}
			}
		}

	case isa.MnemSqrt:
		ferr = vm.unaryArith(ins, math.Sqrt)
	case isa.MnemLog:
		ferr = vm.unaryArith(ins, math.Log)
	case isa.MnemSin:
		ferr = vm.unaryArith(ins, math.Sin)
	case isa.MnemCos:
		ferr = vm.unaryArith(ins, math.Cos)
	case isa.MnemTan:
		ferr = vm.unaryArith(ins, math.Tan)
	case isa.MnemAsin:
		ferr = vm.unaryArith(ins, math.Asin)
	case isa.MnemAcos:
		ferr = vm.unaryArith(ins, math.Acos)
	case isa.MnemAtan:
		ferr = vm.unaryArith(ins, math.Atan)
	case isa.MnemAbs:
		ferr = vm.unaryArith(ins, math.Abs)

	case isa.MnemAnd:
		ferr = vm.binaryBitwise(ins, func(a, b uint32) uint32 { return a & b })
	case isa.MnemOr:
		ferr = vm.binaryBitwise(ins, func(a, b uint32) uint32 { return a | b })
	case isa.MnemXor:
		ferr = vm.binaryBitwise(ins, func(a, b uint32) uint32 { return a ^ b })
	case isa.MnemShl:
		ferr = vm.shiftOp(ins, func(a uint32, n uint) uint32 { return a << n })
	case isa.MnemShr:
		ferr = vm.shiftOp(ins, func(a uint32, n uint) uint32 { return a >> n })
	case isa.MnemNot:
		ferr = vm.unaryBitwise(ins, func(a uint32) uint32 { return ^a })

	case isa.MnemJmp:
		jumped, ferr = vm.jumpTo(ins.Op1.Label)

	case isa.MnemJz, isa.MnemJnz, isa.MnemJl, isa.MnemJle, isa.MnemJg, isa.MnemJge:
		jumped, ferr = vm.conditionalJump(ins)

	case isa.MnemCall:
		ferr = vm.callStack.push(vm.ip+1, FaultCallStackOverflow)
		if ferr == nil {
			jumped, ferr = vm.jumpTo(ins.Op1.Label)
		}

	case isa.MnemRet:
		var addr int
		addr, ferr = vm.callStack.pop(FaultCallStackUnderflow)
		if ferr == nil {
			vm.ip = addr
			jumped = true
		}

	case isa.MnemLoop:
		vm.Regs[isa.RegCounter]--
		if vm.Regs[isa.RegCounter] != 0 {
			jumped, ferr = vm.jumpTo(ins.Op1.Label)
		}

	case isa.MnemSelect:
		v := vm.readValue(ins.Op1)
		vm.Regs[isa.RegComponent] = v
		intent = &arenaquery.Intent{Component: arenaquery.ComponentID(v), Kind: arenaquery.IntentSelect, Value: v}

	case isa.MnemDeselect:
		vm.Regs[isa.RegComponent] = 0
		intent = &arenaquery.Intent{Kind: arenaquery.IntentDeselect}

	case isa.MnemRotate:
		intent = vm.commitRotate(vm.readValue(ins.Op1))

	case isa.MnemDrive:
		intent = vm.commitDrive(vm.readValue(ins.Op1))

	case isa.MnemFire:
		intent = vm.commitFire(vm.readValue(ins.Op1))

	case isa.MnemScan:
		intent = vm.commitScan()

	case isa.MnemAttack:
		intent = vm.commitAttack()

	case isa.MnemNop:
		// No state effect.

	case isa.MnemDbg:
		val := vm.readValue(ins.Op1)
		if vm.Observer != nil {
			fmt.Fprintln(vm.Observer, vm.debugLine(val))
		}
		intent = &arenaquery.Intent{Kind: arenaquery.IntentDebug, Value: val}

	case isa.MnemSleep:
		// Cost already consumed at fetch time; no state effect.

	default:
		ferr = fault(FaultUnsupportedOperand)
	}

	return jumped, intent, ferr
}

func (vm *VM) memLoad() (float64, *faultError) {
	idx := int(vm.Regs[isa.RegIndex])
	if idx < 0 || idx >= len(vm.Memory) {
		return 0, fault(FaultMemoryOutOfRange)
	}
	v := vm.Memory[idx]
	vm.Regs[isa.RegIndex] = float64(idx + 1)
	return v, nil
}

func (vm *VM) memStore(v float64) *faultError {
	idx := int(vm.Regs[isa.RegIndex])
	if idx < 0 || idx >= len(vm.Memory) {
		return fault(FaultMemoryOutOfRange)
	}
	vm.Memory[idx] = v
	vm.Regs[isa.RegIndex] = float64(idx + 1)
	return nil
}

// binaryArith implements the stack-form/operand-form split shared by add,
// sub, mul, div, mod, pow and atan2 (spec.md §4.2 "Stack and operand
// forms"): zero operands pops two and pushes the result, two operands
// reads both without touching the stack and writes `result`.
func (vm *VM) binaryArith(ins isa.Instruction, fn func(a, b float64) (float64, *faultError)) *faultError {
	if ins.Op1.IsNone() {
		b, ferr := vm.stack.pop(FaultStackUnderflow)
		if ferr != nil {
			return ferr
		}
		a, ferr := vm.stack.pop(FaultStackUnderflow)
		if ferr != nil {
			return ferr
		}
		r, ferr := fn(a, b)
		if ferr != nil {
			return ferr
		}
		return vm.stack.push(r, FaultStackOverflow)
	}
	r, ferr := fn(vm.readValue(ins.Op1), vm.readValue(ins.Op2))
	if ferr != nil {
		return ferr
	}
	vm.Regs[isa.RegResult] = r
	return nil
}

func (vm *VM) unaryArith(ins isa.Instruction, fn func(float64) float64) *faultError {
	if ins.Op1.IsNone() {
		v, ferr := vm.stack.pop(FaultStackUnderflow)
		if ferr != nil {
			return ferr
		}
		return vm.stack.push(fn(v), FaultStackOverflow)
	}
	vm.Regs[isa.RegResult] = fn(vm.readValue(ins.Op1))
	return nil
}

func (vm *VM) binaryBitwise(ins isa.Instruction, fn func(a, b uint32) uint32) *faultError {
	return vm.binaryArith(ins, func(a, b float64) (float64, *faultError) {
		return float64(fn(floatToU32(a), floatToU32(b))), nil
	})
}

func (vm *VM) unaryBitwise(ins isa.Instruction, fn func(a uint32) uint32) *faultError {
	return vm.unaryArith(ins, func(a float64) float64 {
		return float64(fn(floatToU32(a)))
	})
}

// shiftOp handles shl/shr: the shift count is clamped to [0, 31] directly
// from its raw operand value, separately from the u32 conversion applied
// to the value being shifted (spec.md §4.2 "Bitwise conversion").
func (vm *VM) shiftOp(ins isa.Instruction, fn func(a uint32, n uint) uint32) *faultError {
	return vm.binaryArith(ins, func(a, n float64) (float64, *faultError) {
		shamt := clampInt(int(math.Trunc(n)), 0, 31)
		return float64(fn(floatToU32(a), uint(shamt))), nil
	})
}

// conditionalJump implements jz/jnz/jl/jle/jg/jge: all inspect `result`
// against 0; NaN faults (spec.md §4.2, §9).
func (vm *VM) conditionalJump(ins isa.Instruction) (bool, *faultError) {
	r := vm.Regs[isa.RegResult]
	if math.IsNaN(r) {
		return false, fault(FaultNaNCompare)
	}
	var take bool
	switch ins.Mnemonic {
	case isa.MnemJz:
		take = r == 0
	case isa.MnemJnz:
		take = r != 0
	case isa.MnemJl:
		take = r < 0
	case isa.MnemJle:
		take = r <= 0
	case isa.MnemJg:
		take = r > 0
	case isa.MnemJge:
		take = r >= 0
	}
	if take {
		return vm.jumpTo(ins.Op1.Label)
	}
	return false, nil
}

// jumpTo sets ip to target if it addresses an actual instruction, faulting
// otherwise. A label may legitimately resolve to len(instructions) (a
// trailing label with nothing after it); landing there via an explicit
// jump/call/loop is not the same as naturally running out of program via
// IP increment, so it faults rather than quietly finishing (spec.md §7
// "invalid jump target").
func (vm *VM) jumpTo(target uint32) (bool, *faultError) {
	idx := int(target)
	if idx < 0 || idx >= len(vm.Program.Instructions) {
		return false, fault(FaultInvalidJumpTarget)
	}
	vm.ip = idx
	return true, nil
}

// floatToU32 truncates toward zero and reduces modulo 2^32, per spec.md
// §4.2's "Bitwise conversion" rule for float operands feeding and/or/xor/
// not/shl/shr.
func floatToU32(f float64) uint32 {
	t := math.Trunc(f)
	m := math.Mod(t, 4294967296)
	if m < 0 {
		m += 4294967296
	}
	return uint32(m)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
