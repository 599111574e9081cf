package isa

import "fmt"

// Instruction is one assembled step: a mnemonic, up to two typed operands,
// and its fixed cycle cost (sleep's cost is recomputed at fetch time from
// its operand value — see Mnemonic.BaseCycleCost).
type Instruction struct {
	Mnemonic Mnemonic
	Op1      Operand
	Op2      Operand
	Cost     int
}

// Program is the immutable output of assembly: a flat instruction vector,
// a label-name to instruction-index table, and the resolved `.const` values.
// It is never mutated after Assemble returns (spec.md §3 "Lifecycles").
type Program struct {
	Instructions []Instruction
	Labels       map[string]uint32
	Constants    map[string]float64
}

// String renders ins as source text, approximating what the assembler would
// have accepted. Label operands print as raw instruction indices, so the
// output does not re-assemble; the round-trip disassembler (package asm)
// renders labels by name instead.
func (ins Instruction) String() string {
	out := ins.Mnemonic.String()
	for _, op := range []Operand{ins.Op1, ins.Op2} {
		if op.IsNone() {
			continue
		}
		out += " " + OperandString(op)
	}
	return out
}

// OperandString renders op's non-label forms as source text. Exported so
// package asm's disassembler can reuse it for immediate/register operands
// while resolving label operands to symbolic names itself.
func OperandString(op Operand) string {
	switch op.Kind {
	case OperandImmediate:
		return fmt.Sprintf("%g", op.Imm)
	case OperandRegister:
		return "@" + op.Reg.String()
	case OperandLabel:
		return fmt.Sprintf("%d", op.Label)
	default:
		return ""
	}
}
