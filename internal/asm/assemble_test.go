package asm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"robotbattle/internal/isa"
)

// assert mirrors the teacher's vm/vm_test.go helper of the same name; used
// for the scenario-style tests below, while the table-driven tests further
// down reach for testify instead.
func assert(t *testing.T, cond bool, format string, args ...any) {
	t.Helper()
	if !cond {
		t.Fatalf(format, args...)
	}
}

func TestConstantExpression(t *testing.T) {
	prog, err := Assemble(".const A 3\n.const B (A + 2) * 4\n.const C B % 5\nnop\n", Config{})
	assert(t, err == nil, "assemble failed: %v", err)
	assert(t, prog.Constants["A"] == 3, "want A==3, got %v", prog.Constants["A"])
	assert(t, prog.Constants["B"] == 20, "want B==20, got %v", prog.Constants["B"])
	assert(t, prog.Constants["C"] == 0, "want C==0, got %v", prog.Constants["C"])
}

func TestPredefinedConstants(t *testing.T) {
	prog, err := Assemble("push ARENA_WIDTH\npush ARENA_HEIGHT\n", Config{ArenaWidth: 640, ArenaHeight: 480})
	require.NoError(t, err)
	require.Equal(t, 640.0, prog.Constants["ARENA_WIDTH"])
	require.Equal(t, 480.0, prog.Constants["ARENA_HEIGHT"])
	require.Equal(t, isa.OperandImmediate, prog.Instructions[0].Op1.Kind)
	require.Equal(t, 640.0, prog.Instructions[0].Op1.Imm)
}

func TestLabelRoundTrip(t *testing.T) {
	src := "jmp skip\nnop\nskip:\nnop\n"
	prog, err := Assemble(src, Config{})
	require.NoError(t, err)
	require.Equal(t, uint32(2), prog.Labels["skip"])
	require.Equal(t, isa.OperandLabel, prog.Instructions[0].Op1.Kind)
	require.Equal(t, uint32(2), prog.Instructions[0].Op1.Label)

	reassembled, err := Assemble(Disassemble(prog), Config{})
	require.NoError(t, err)
	require.Equal(t, prog.Instructions, reassembled.Instructions)
	require.Equal(t, prog.Labels, reassembled.Labels)
}

func TestAssembleErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"unknown mnemonic", "frobnicate\n"},
		{"undefined label", "jmp nowhere\n"},
		{"duplicate label", "a:\nnop\na:\nnop\n"},
		{"duplicate constant", ".const A 1\n.const A 2\n"},
		{"undefined constant", ".const A B\n"},
		{"lowercase constant name", ".const a 1\n"},
		{"write to read-only register", "mov @fault 1\n"},
		{"wrong operand count", "push\n"},
		{"unknown register", "push @nosuch\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Assemble(tc.src, Config{})
			require.Error(t, err)
		})
	}
}

func TestCaseInsensitiveMnemonicsAndRegisters(t *testing.T) {
	prog, err := Assemble("PUSH 1\nPOP @D0\n", Config{})
	require.NoError(t, err)
	require.Equal(t, isa.MnemPush, prog.Instructions[0].Mnemonic)
	require.Equal(t, isa.RegD0, prog.Instructions[1].Op1.Reg)
}

func TestMnemonicAliases(t *testing.T) {
	je, err := Assemble("je there\nnop\nthere:\nnop\n", Config{})
	require.NoError(t, err)
	jz, err := Assemble("jz there\nnop\nthere:\nnop\n", Config{})
	require.NoError(t, err)
	require.Equal(t, jz.Instructions[0].Mnemonic, je.Instructions[0].Mnemonic)
}

func TestCommentsAndCommas(t *testing.T) {
	prog, err := Assemble("mov @d0, 1 ; set d0\n# full line comment\nmov @d1 2 // trailing\n", Config{})
	require.NoError(t, err)
	require.Len(t, prog.Instructions, 2)
}
