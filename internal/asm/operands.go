package asm

import "robotbattle/internal/isa"

// opClass is the operand-shape class a mnemonic's argument position
// requires: R (writable general register), V (immediate or any register,
// also used for the component-id "C" class, which validates identically),
// or L (label name).
type opClass int

const (
	classR opClass = iota
	classV
	classL
)

// operandShapes returns every operand-count/class signature m accepts.
// Assembly rejects any instruction whose argument list matches none of
// these (spec.md §4.1 "Operand typing").
func operandShapes(m isa.Mnemonic) [][]opClass {
	switch m {
	case isa.MnemPush:
		return [][]opClass{{classV}}
	case isa.MnemPop:
		return [][]opClass{{}, {classR}}
	case isa.MnemDup, isa.MnemSwap:
		return [][]opClass{{}}
	case isa.MnemMov:
		return [][]opClass{{classR, classV}}
	case isa.MnemCmp:
		return [][]opClass{{classV, classV}}
	case isa.MnemLod:
		return [][]opClass{{classR}}
	case isa.MnemSto:
		return [][]opClass{{classV}}
	case isa.MnemAdd, isa.MnemSub, isa.MnemMul, isa.MnemDiv, isa.MnemMod,
		isa.MnemPow, isa.MnemAtan2, isa.MnemAnd, isa.MnemOr, isa.MnemXor,
		isa.MnemShl, isa.MnemShr:
		return [][]opClass{{}, {classV, classV}}
	case isa.MnemDivmod:
		return [][]opClass{{}}
	case isa.MnemSqrt, isa.MnemLog, isa.MnemSin, isa.MnemCos, isa.MnemTan,
		isa.MnemAsin, isa.MnemAcos, isa.MnemAtan, isa.MnemAbs, isa.MnemNot:
		return [][]opClass{{}, {classV}}
	case isa.MnemJmp, isa.MnemJz, isa.MnemJnz, isa.MnemJl, isa.MnemJle,
		isa.MnemJg, isa.MnemJge, isa.MnemCall, isa.MnemLoop:
		return [][]opClass{{classL}}
	case isa.MnemRet, isa.MnemDeselect, isa.MnemScan, isa.MnemAttack, isa.MnemNop:
		return [][]opClass{{}}
	case isa.MnemSelect, isa.MnemRotate, isa.MnemDrive, isa.MnemFire,
		isa.MnemDbg, isa.MnemSleep:
		return [][]opClass{{classV}}
	default:
		return nil
	}
}
