package main

import (
	"os"

	"robotbattle/internal/arena"
	"robotbattle/internal/asm"
	"robotbattle/internal/isa"
)

// loadProgram reads and assembles one robot source file against cfg's
// arena dimensions (the two predefined constants spec.md §4.1 names,
// ARENA_WIDTH/ARENA_HEIGHT).
func loadProgram(path string, cfg arena.Config) (*isa.Program, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return asm.Assemble(string(src), asm.Config{ArenaWidth: cfg.ArenaWidth, ArenaHeight: cfg.ArenaHeight})
}
