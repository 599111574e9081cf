package asm

import (
	"strconv"
	"strings"

	"robotbattle/internal/isa"
)

// Config supplies the two predefined constants spec.md §4.1 names
// (ARENA_WIDTH, ARENA_HEIGHT), whose values come from arena configuration
// rather than source text.
type Config struct {
	ArenaWidth  float64
	ArenaHeight float64
}

type labelRef struct {
	instrIdx int
	name     string
	lineNo   int
}

// Assemble runs the two-pass algorithm of spec.md §4.1 over source, producing
// an immutable isa.Program. Pass 1 resolves .const definitions, records
// label addresses, and emits provisional instructions with unresolved label
// operands tracked separately; pass 2 resolves those operands to instruction
// indices. Grounded on the teacher's CompileSourceFromBuffer (vm/compile.go),
// generalized from regex-based label substitution in raw text to a symbol
// table resolved against typed operands.
func Assemble(source string, cfg Config) (*isa.Program, error) {
	lines, err := lexSource(source)
	if err != nil {
		return nil, err
	}

	constants := map[string]float64{
		"ARENA_WIDTH":  cfg.ArenaWidth,
		"ARENA_HEIGHT": cfg.ArenaHeight,
	}
	labels := make(map[string]uint32)

	var instructions []isa.Instruction
	var labelRefs []labelRef

	// Pass 1.
	for _, rl := range lines {
		if rl.Label != "" {
			if _, dup := labels[rl.Label]; dup {
				return nil, errf(rl.LineNo, "duplicate label: %s", rl.Label)
			}
			labels[rl.Label] = uint32(len(instructions))
		}

		if rl.IsConst {
			if err := defineConst(rl, constants); err != nil {
				return nil, err
			}
			continue
		}

		if rl.Mnemonic == "" {
			continue
		}

		mnem, ok := isa.LookupMnemonic(rl.Mnemonic)
		if !ok {
			return nil, errf(rl.LineNo, "unknown mnemonic: %s", rl.Mnemonic)
		}

		ins, ref, err := buildInstruction(rl, mnem, constants, len(instructions))
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, ins)
		if ref != nil {
			labelRefs = append(labelRefs, *ref)
		}
	}

	// Pass 2: resolve label operands to instruction indices.
	for _, ref := range labelRefs {
		idx, ok := labels[ref.name]
		if !ok {
			return nil, errf(ref.lineNo, "undefined label: %s", ref.name)
		}
		instructions[ref.instrIdx].Op1 = isa.LabelOperand(idx)
	}

	return &isa.Program{
		Instructions: instructions,
		Labels:       labels,
		Constants:    constants,
	}, nil
}

func defineConst(rl *rawLine, constants map[string]float64) error {
	if rl.ConstName != strings.ToUpper(rl.ConstName) {
		return errf(rl.LineNo, "constant name must be ALL_CAPS: %s", rl.ConstName)
	}
	if _, dup := constants[rl.ConstName]; dup {
		return errf(rl.LineNo, "duplicate constant: %s", rl.ConstName)
	}
	v, err := evalConstExpr(rl.ConstExpr, constants)
	if err != nil {
		return errf(rl.LineNo, "%s", err.Error())
	}
	constants[rl.ConstName] = v
	return nil
}

// buildInstruction validates rl's argument count/shape against mnem's
// accepted signatures and parses each argument into a typed Operand. The
// returned labelRef is non-nil when the instruction has an unresolved label
// operand to be filled in during pass 2.
func buildInstruction(rl *rawLine, mnem isa.Mnemonic, constants map[string]float64, instrIdx int) (isa.Instruction, *labelRef, error) {
	shapes := operandShapes(mnem)
	var shape []opClass
	matched := false
	for _, s := range shapes {
		if len(s) == len(rl.Args) {
			shape = s
			matched = true
			break
		}
	}
	if !matched {
		return isa.Instruction{}, nil, errf(rl.LineNo, "%s does not accept %d argument(s)", rl.Mnemonic, len(rl.Args))
	}

	ins := isa.Instruction{Mnemonic: mnem, Cost: mnem.BaseCycleCost()}
	var ref *labelRef

	for i, class := range shape {
		tok := rl.Args[i]
		var op isa.Operand
		var err error

		switch class {
		case classL:
			// Resolved in pass 2; stash the raw name for now.
			ref = &labelRef{instrIdx: instrIdx, name: tok, lineNo: rl.LineNo}
			op = isa.LabelOperand(0)
		case classR:
			op, err = parseValueOperand(rl.LineNo, tok, constants)
			if err == nil && (op.Kind != isa.OperandRegister || !op.Reg.Writable()) {
				err = errf(rl.LineNo, "write to read-only or non-register operand: %s", tok)
			}
		case classV:
			op, err = parseValueOperand(rl.LineNo, tok, constants)
		}
		if err != nil {
			return isa.Instruction{}, nil, err
		}

		if i == 0 {
			ins.Op1 = op
		} else {
			ins.Op2 = op
		}
	}

	return ins, ref, nil
}

// parseValueOperand parses tok as a register reference (leading '@'), a
// constant reference, or a numeric immediate.
func parseValueOperand(lineNo int, tok string, constants map[string]float64) (isa.Operand, error) {
	if strings.HasPrefix(tok, "@") {
		name := tok[1:]
		id, ok := isa.LookupRegister(name)
		if !ok {
			return isa.Operand{}, errf(lineNo, "register name unknown: %s", name)
		}
		return isa.RegisterOperand(id), nil
	}

	if v, ok := constants[tok]; ok {
		return isa.ImmediateOperand(v), nil
	}

	if len(tok) > 0 && isIdentStart(tok[0]) {
		return isa.Operand{}, errf(lineNo, "undefined constant reference: %s", tok)
	}

	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return isa.Operand{}, errf(lineNo, "malformed operand: %s", tok)
	}
	return isa.ImmediateOperand(f), nil
}
