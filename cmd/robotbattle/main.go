// Command robotbattle assembles and runs robot battle programs. Three
// subcommands: asm (assemble and print a listing), run (assemble and play
// a full match), debug (single-step one robot's VM). Grounded on the
// teacher's CLI surface (root main.go's flag-driven compile/run/debug
// switch) but restructured onto gopkg.in/urfave/cli.v1's Command/Context
// shape, the same framework ProbeChain-go-probe's cmd/devp2p and
// cmd/gprobe use for their subcommand trees.
package main

import (
	"fmt"
	"os"

	"gopkg.in/urfave/cli.v1"
)

func main() {
	app := cli.NewApp()
	app.Name = "robotbattle"
	app.Usage = "assemble and run robot battle programs"
	app.Version = "0.1.0"
	app.Commands = []cli.Command{
		asmCommand,
		runCommand,
		debugCommand,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
