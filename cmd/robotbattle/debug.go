package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/urfave/cli.v1"

	"robotbattle/internal/arena"
	"robotbattle/internal/isa"
)

var debugCommand = cli.Command{
	Name:      "debug",
	Usage:     "single-step one robot's VM, cycle by cycle",
	ArgsUsage: "<file>",
	Action:    runDebug,
}

// runDebug single-steps one robot's VM against the reference query
// implementation (no opponents, so scans never find a target). Grounded
// on the teacher's RunProgramDebugMode (vm/run.go): n/next executes one
// cycle, r/run free-runs until a breakpoint or halt, b/break <n> toggles a
// breakpoint on an instruction index.
func runDebug(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError("debug requires exactly one source file", 1)
	}

	cfg := arena.DefaultConfig()
	prog, err := loadProgram(ctx.Args().Get(0), cfg)
	if err != nil {
		return err
	}

	m := arena.NewMatch(cfg, []*isa.Program{prog}, 1, os.Stdout)
	r := m.Robots[0]

	fmt.Println("Commands:\n\tn or next: execute one cycle\n\tr or run: run until breakpoint or halt\n\tb or break <n>: toggle breakpoint on instruction n\n\tregs: print registers\n")

	printVMState(r, prog)

	reader := bufio.NewReader(os.Stdin)
	waitForInput := true
	breakpoints := make(map[int]struct{})
	cycle := 0

	for {
		line := ""
		if waitForInput {
			fmt.Print("\n-> ")
			line, _ = reader.ReadString('\n')
			line = strings.ToLower(strings.TrimSpace(line))
		} else if _, ok := breakpoints[r.VM.IP()]; ok {
			fmt.Println("breakpoint")
			printVMState(r, prog)
			waitForInput = true
			continue
		}

		switch {
		case !waitForInput || line == "n" || line == "next":
			intent, err := r.VM.Tick(m.Turn, cycle)
			r.VM.AdvanceComponents()
			cycle++
			if waitForInput {
				if intent != nil {
					fmt.Printf("intent: component=%d kind=%d value=%g\n", intent.Component, intent.Kind, intent.Value)
				}
				printVMState(r, prog)
			}
			if r.VM.Halted() {
				fmt.Println("halted:", r.VM.FaultCode())
				return nil
			}
			if r.VM.Finished() {
				fmt.Println("program finished")
				return nil
			}
		case line == "regs":
			printVMState(r, prog)
		case line == "r" || line == "run":
			waitForInput = false
		case strings.HasPrefix(line, "b"):
			fields := strings.Fields(line)
			if len(fields) < 2 {
				fmt.Println("usage: b <instruction index>")
				continue
			}
			n, err := strconv.Atoi(fields[len(fields)-1])
			if err != nil {
				fmt.Println("unknown instruction index:", fields[len(fields)-1])
				continue
			}
			if _, ok := breakpoints[n]; ok {
				delete(breakpoints, n)
			} else {
				breakpoints[n] = struct{}{}
			}
		}
	}
}

func printVMState(r *arena.Robot, prog *isa.Program) {
	ip := r.VM.IP()
	if ip >= 0 && ip < len(prog.Instructions) {
		fmt.Printf("ip=%d: %s\n", ip, prog.Instructions[ip].String())
	} else {
		fmt.Printf("ip=%d: <end of program>\n", ip)
	}
	fmt.Printf("health=%.1f power=%.2f pos=(%.1f,%.1f) component=%.0f fault=%.0f\n",
		r.VM.Health(), r.VM.Power(), r.VM.PosX(), r.VM.PosY(), r.VM.Regs[isa.RegComponent], r.VM.Regs[isa.RegFault])
}
