package main

import (
	"fmt"

	"gopkg.in/urfave/cli.v1"

	"robotbattle/internal/arena"
	"robotbattle/internal/asm"
)

var asmCommand = cli.Command{
	Name:      "asm",
	Usage:     "assemble a robot program and print its instruction listing",
	ArgsUsage: "<file>",
	Action:    runAsm,
}

func runAsm(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError("asm requires exactly one source file", 1)
	}

	cfg := arena.DefaultConfig()
	prog, err := loadProgram(ctx.Args().Get(0), cfg)
	if err != nil {
		return err
	}

	fmt.Print(asm.Disassemble(prog))
	fmt.Printf("\n; %d instruction(s), %d label(s), %d constant(s)\n",
		len(prog.Instructions), len(prog.Labels), len(prog.Constants))
	return nil
}
