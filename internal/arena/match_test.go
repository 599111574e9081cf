package arena

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"robotbattle/internal/asm"
	"robotbattle/internal/isa"
)

func mustAssemble(t *testing.T, src string, cfg Config) *isa.Program {
	t.Helper()
	prog, err := asm.Assemble(src, asm.Config{ArenaWidth: cfg.ArenaWidth, ArenaHeight: cfg.ArenaHeight})
	require.NoError(t, err)
	return prog
}

func TestMatchTerminatesWithinMaxTurns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTurns = 5

	idleSrc := "loop:\nnop\njmp loop\n"
	a := mustAssemble(t, idleSrc, cfg)
	b := mustAssemble(t, idleSrc, cfg)

	m := NewMatch(cfg, []*isa.Program{a, b}, 7, io.Discard)
	m.Run()

	require.LessOrEqual(t, m.Turn, cfg.MaxTurns)
	require.Len(t, m.Robots, 2)
}

func TestMatchIsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTurns = 3

	src := "loop:\nselect 2\nscan\nrotate 5\njmp loop\n"
	a1 := mustAssemble(t, src, cfg)
	b1 := mustAssemble(t, src, cfg)
	a2 := mustAssemble(t, src, cfg)
	b2 := mustAssemble(t, src, cfg)

	m1 := NewMatch(cfg, []*isa.Program{a1, b1}, 42, io.Discard)
	m1.Run()
	m2 := NewMatch(cfg, []*isa.Program{a2, b2}, 42, io.Discard)
	m2.Run()

	for i := range m1.Robots {
		require.Equal(t, m1.Robots[i].VM.Health(), m2.Robots[i].VM.Health())
		require.Equal(t, m1.Robots[i].VM.PosX(), m2.Robots[i].VM.PosX())
		require.Equal(t, m1.Robots[i].VM.PosY(), m2.Robots[i].VM.PosY())
	}
}
