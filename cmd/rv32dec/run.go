package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/profile"
	"github.com/urfave/cli/v2"

	"github.com/GengLUO/coco-ibex-ipmfd/core"
	"github.com/GengLUO/coco-ibex-ipmfd/decode"
	"github.com/GengLUO/coco-ibex-ipmfd/loader"
	"github.com/GengLUO/coco-ibex-ipmfd/timing/icache"
)

var (
	colorReg     = color.New(color.FgGreen)
	colorSummary = color.New(color.FgBlue, color.Bold)
)

var rawFlag = &cli.BoolFlag{
	Name:  "raw",
	Usage: "treat the program as a flat binary instead of an ELF file",
}

var entryFlag = &cli.Uint64Flag{
	Name:  "entry",
	Usage: "load address and entry point for a flat binary",
	Value: 0x80000000,
}

var maxInstructionsFlag = &cli.Uint64Flag{
	Name:  "max-instructions",
	Usage: "stop after this many instructions (0 means no limit)",
	Value: 0,
}

var icacheFlag = &cli.BoolFlag{
	Name:  "icache",
	Usage: "fetch through a modeled instruction cache",
}

var regsFlag = &cli.BoolFlag{
	Name:  "regs",
	Usage: "dump the register file after the run",
}

var cpuProfileFlag = &cli.BoolFlag{
	Name:  "pprof.cpu",
	Usage: "write a CPU profile to the current directory",
}

var verboseFlag = &cli.BoolFlag{
	Name:    "verbose",
	Aliases: []string{"v"},
	Usage:   "trace every retired instruction",
}

// RunCommand executes an RV32 program on the functional core model.
var RunCommand = &cli.Command{
	Name:      "run",
	Usage:     "run an RV32 program on the functional core",
	ArgsUsage: "<program>",
	Flags: []cli.Flag{
		configFlag,
		rawFlag,
		entryFlag,
		maxInstructionsFlag,
		icacheFlag,
		regsFlag,
		cpuProfileFlag,
		verboseFlag,
	},
	Action: runAction,
}

func runAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("expected exactly one program path")
	}

	if ctx.Bool(cpuProfileFlag.Name) {
		defer profile.Start(profile.NoShutdownHook, profile.ProfilePath("."), profile.CPUProfile).Stop()
	}

	cfg, err := loadCoreConfig(ctx)
	if err != nil {
		return err
	}

	var opts []core.Option
	if ctx.Bool(icacheFlag.Name) {
		opts = append(opts, core.WithICacheConfig(icache.DefaultConfig()))
	}
	if ctx.Bool(verboseFlag.Name) {
		opts = append(opts, core.WithStepHook(func(res core.StepResult) {
			fmt.Printf("pc=0x%08x instr=0x%08x cycles=%d\n",
				res.PC, uint32(res.Instr), res.Cycles)
		}))
	}
	c := core.NewCore(cfg, opts...)

	if err := loadProgram(ctx, c); err != nil {
		return err
	}

	res := c.Run(ctx.Uint64(maxInstructionsFlag.Name))
	if res.Err != nil {
		return res.Err
	}

	_, _ = colorSummary.Printf("retired %d instructions, stopped at pc=0x%08x\n",
		c.InstructionCount(), res.PC)
	switch {
	case res.Illegal:
		_, _ = colorIllegal.Printf("illegal instruction 0x%08x\n", uint32(res.Instr))
	case res.Trap != decode.TrapNone:
		_, _ = colorTrap.Printf("trap: %s\n", res.Trap)
	}

	if ctx.Bool(regsFlag.Name) {
		dumpRegs(c)
	}
	return nil
}

func loadProgram(ctx *cli.Context, c *core.Core) error {
	path := ctx.Args().First()

	if ctx.Bool(rawFlag.Name) {
		program, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read program: %w", err)
		}
		c.LoadProgram(uint32(ctx.Uint64(entryFlag.Name)), program)
		return nil
	}

	prog, err := loader.Load(path)
	if err != nil {
		return err
	}
	for _, seg := range prog.Segments {
		c.Memory().LoadBytes(seg.VirtAddr, seg.Data)
	}
	c.LoadProgram(prog.EntryPoint, nil)
	// x2 is the stack pointer by convention.
	c.RegFile().Write(2, prog.InitialSP, true)
	return nil
}

func dumpRegs(c *core.Core) {
	for reg := uint8(0); reg < 32; reg += 4 {
		for i := uint8(0); i < 4; i++ {
			_, _ = colorReg.Printf("x%-2d", reg+i)
			fmt.Printf("=0x%08x  ", c.RegFile().Read(reg+i))
		}
		fmt.Println()
	}
}
