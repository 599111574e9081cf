package main

import (
	"fmt"
	"os"

	"gopkg.in/urfave/cli.v1"

	"robotbattle/internal/arena"
	"robotbattle/internal/isa"
)

var runCommand = cli.Command{
	Name:      "run",
	Usage:     "assemble one robot program per file and run a match to completion",
	ArgsUsage: "<file> [<file> ...]",
	Flags: []cli.Flag{
		cli.Int64Flag{Name: "seed", Value: 1, Usage: "match seed"},
	},
	Action: runMatch,
}

func runMatch(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return cli.NewExitError("run requires at least one source file", 1)
	}

	cfg := arena.DefaultConfig()
	var progs []*isa.Program
	for _, path := range ctx.Args() {
		prog, err := loadProgram(path, cfg)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		progs = append(progs, prog)
	}

	m := arena.NewMatch(cfg, progs, ctx.Int64("seed"), os.Stdout)
	m.Run()

	fmt.Printf("match %s finished after turn %d\n", m.ID, m.Turn)
	for _, r := range m.Robots {
		status := "destroyed"
		if r.VM.Alive() {
			status = "alive"
		}
		if r.VM.Halted() {
			status += fmt.Sprintf(" (faulted: %s)", r.VM.FaultCode())
		}
		fmt.Printf("robot %d: %s, health=%.1f\n", r.ID, status, r.VM.Health())
	}
	return nil
}
