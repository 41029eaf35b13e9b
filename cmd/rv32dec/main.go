// Package main provides the rv32dec command line tool: an instruction
// decoder inspector and a functional runner for RV32 programs.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()
	app.Name = "rv32dec"
	app.Usage = "RV32 instruction decoder and functional core"
	app.Description = "Decodes RV32IMB and masked-arithmetic instructions " +
		"into control signals, and runs RV32 programs on a functional core model."
	app.Commands = []*cli.Command{
		DecodeCommand,
		RunCommand,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
