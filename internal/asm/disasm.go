package asm

import (
	"fmt"
	"strings"

	"robotbattle/internal/isa"
)

// Disassemble renders prog back to source text such that re-assembling the
// result yields an instruction vector and label table equivalent to prog's
// (spec.md §8 round-trip property). Grounded on the teacher's
// Instruction.String()/formatInstructionStr pretty-printing, generalized to
// resolve label operands back to symbolic names instead of printing the
// teacher's raw numeric jump targets.
func Disassemble(prog *isa.Program) string {
	names := labelNamesByIndex(prog)

	var b strings.Builder
	for i, ins := range prog.Instructions {
		if name, ok := names[uint32(i)]; ok {
			fmt.Fprintf(&b, "%s:\n", name)
		}
		fmt.Fprintln(&b, renderInstruction(ins, names))
	}
	return b.String()
}

// labelNamesByIndex inverts prog.Labels, preferring the original names, and
// synthesizes "L<idx>" for any jump target that has no recorded label name
// (defensive; every label target should have one after a successful
// Assemble, but a hand-built Program might not).
func labelNamesByIndex(prog *isa.Program) map[uint32]string {
	names := make(map[uint32]string, len(prog.Labels))
	for name, idx := range prog.Labels {
		names[idx] = name
	}
	for _, ins := range prog.Instructions {
		for _, op := range []isa.Operand{ins.Op1, ins.Op2} {
			if op.Kind == isa.OperandLabel {
				if _, ok := names[op.Label]; !ok {
					names[op.Label] = fmt.Sprintf("L%d", op.Label)
				}
			}
		}
	}
	return names
}

func renderInstruction(ins isa.Instruction, names map[uint32]string) string {
	out := ins.Mnemonic.String()
	for _, op := range []isa.Operand{ins.Op1, ins.Op2} {
		if op.IsNone() {
			continue
		}
		out += " " + renderOperand(op, names)
	}
	return out
}

func renderOperand(op isa.Operand, names map[uint32]string) string {
	if op.Kind == isa.OperandLabel {
		return names[op.Label]
	}
	return isa.OperandString(op)
}
