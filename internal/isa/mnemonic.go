package isa

import "strings"

// Mnemonic is the tagged-variant discriminator for an instruction. Dispatch
// on it is a flat switch in vmcore, not a per-opcode virtual call, following
// the teacher's Bytecode-keyed switch in vm/vm.go's execInstructions.
type Mnemonic int

const (
	MnemNone Mnemonic = iota

	MnemPush
	MnemPop
	MnemDup
	MnemSwap

	MnemMov
	MnemCmp

	MnemLod
	MnemSto

	MnemAdd
	MnemSub
	MnemMul
	MnemDiv
	MnemMod
	MnemDivmod
	MnemPow
	MnemSqrt
	MnemLog
	MnemSin
	MnemCos
	MnemTan
	MnemAsin
	MnemAcos
	MnemAtan
	MnemAtan2
	MnemAbs

	MnemAnd
	MnemOr
	MnemXor
	MnemNot
	MnemShl
	MnemShr

	MnemJmp
	MnemJz
	MnemJnz
	MnemJl
	MnemJle
	MnemJg
	MnemJge
	MnemCall
	MnemRet
	MnemLoop

	MnemSelect
	MnemDeselect
	MnemRotate
	MnemDrive
	MnemFire
	MnemScan
	MnemAttack

	MnemNop
	MnemDbg
	MnemSleep
)

var mnemonicNames = map[Mnemonic]string{
	MnemPush: "push", MnemPop: "pop", MnemDup: "dup", MnemSwap: "swap",
	MnemMov: "mov", MnemCmp: "cmp",
	MnemLod: "lod", MnemSto: "sto",
	MnemAdd: "add", MnemSub: "sub", MnemMul: "mul", MnemDiv: "div", MnemMod: "mod",
	MnemDivmod: "divmod",
	MnemPow:    "pow", MnemSqrt: "sqrt", MnemLog: "log",
	MnemSin: "sin", MnemCos: "cos", MnemTan: "tan",
	MnemAsin: "asin", MnemAcos: "acos", MnemAtan: "atan", MnemAtan2: "atan2",
	MnemAbs: "abs",
	MnemAnd: "and", MnemOr: "or", MnemXor: "xor", MnemNot: "not",
	MnemShl: "shl", MnemShr: "shr",
	MnemJmp: "jmp", MnemJz: "jz", MnemJnz: "jnz",
	MnemJl: "jl", MnemJle: "jle", MnemJg: "jg", MnemJge: "jge",
	MnemCall: "call", MnemRet: "ret", MnemLoop: "loop",
	MnemSelect: "select", MnemDeselect: "deselect",
	MnemRotate: "rotate", MnemDrive: "drive", MnemFire: "fire",
	MnemScan: "scan", MnemAttack: "attack",
	MnemNop: "nop", MnemDbg: "dbg", MnemSleep: "sleep",
}

// mnemonicAliases maps alternate case-insensitive spellings onto their
// canonical mnemonic, per spec.md §6.1 ("jz/je, jnz/jne").
var mnemonicAliases = map[string]Mnemonic{
	"je":  MnemJz,
	"jne": MnemJnz,
}

var nameToMnemonic map[string]Mnemonic

func init() {
	nameToMnemonic = make(map[string]Mnemonic, len(mnemonicNames)+len(mnemonicAliases))
	for m, name := range mnemonicNames {
		nameToMnemonic[name] = m
	}
	for alias, m := range mnemonicAliases {
		nameToMnemonic[alias] = m
	}
}

func (m Mnemonic) String() string {
	if name, ok := mnemonicNames[m]; ok {
		return name
	}
	return "?mnemonic?"
}

// LookupMnemonic resolves a case-insensitive mnemonic spelling to its
// canonical Mnemonic. Returns false if unrecognized.
func LookupMnemonic(name string) (Mnemonic, bool) {
	m, ok := nameToMnemonic[strings.ToLower(name)]
	return m, ok
}

// baseCycleCost is the fixed per-mnemonic cost table from spec.md §4.2.
// Sleep is variable and handled specially by the caller.
var baseCycleCost = map[Mnemonic]int{
	MnemPush: 1, MnemPop: 1, MnemDup: 1, MnemSwap: 1,
	MnemMov: 1, MnemCmp: 1,
	MnemLod: 1, MnemSto: 1,
	MnemAdd: 1, MnemSub: 1, MnemMul: 1, MnemDiv: 1, MnemMod: 1, MnemDivmod: 1,
	MnemAbs: 1,
	MnemAnd: 1, MnemOr: 1, MnemXor: 1, MnemNot: 1, MnemShl: 1, MnemShr: 1,
	MnemJmp: 1, MnemJz: 1, MnemJnz: 1, MnemJl: 1, MnemJle: 1, MnemJg: 1, MnemJge: 1,
	MnemLoop: 1, MnemSelect: 1, MnemDeselect: 1, MnemNop: 1, MnemDbg: 1,

	MnemPow: 2, MnemSqrt: 2, MnemLog: 2,
	MnemSin: 2, MnemCos: 2, MnemTan: 2,
	MnemAsin: 2, MnemAcos: 2, MnemAtan: 2, MnemAtan2: 2,
	MnemDrive: 2,

	MnemCall: 3, MnemRet: 3, MnemRotate: 3, MnemFire: 3, MnemScan: 3,

	MnemAttack: 5,
}

// BaseCycleCost returns the fixed per-instruction cost for m. Sleep's cost
// depends on its operand value and is computed by the VM at fetch time
// (see vmcore's VM.fetchCost); BaseCycleCost reports 1 for it
// (the spec's "sleep 0 is a 1-cycle nop" floor).
func (m Mnemonic) BaseCycleCost() int {
	if c, ok := baseCycleCost[m]; ok {
		return c
	}
	if m == MnemSleep {
		return 1
	}
	return 1
}

// IsComponentOp reports whether m is dispatched against the currently
// selected component (rotate/drive/fire/scan/attack per spec.md §4.2).
func (m Mnemonic) IsComponentOp() bool {
	switch m {
	case MnemRotate, MnemDrive, MnemFire, MnemScan, MnemAttack:
		return true
	}
	return false
}

// IsJump reports whether m transfers control flow by setting the IP itself
// (as opposed to falling through to IP+1 on commit).
func (m Mnemonic) IsJump() bool {
	switch m {
	case MnemJmp, MnemJz, MnemJnz, MnemJl, MnemJle, MnemJg, MnemJge, MnemCall, MnemRet, MnemLoop:
		return true
	}
	return false
}
