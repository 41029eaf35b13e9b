package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/GengLUO/coco-ibex-ipmfd/decode"
	"github.com/GengLUO/coco-ibex-ipmfd/insts"
)

var (
	colorWord    = color.New(color.FgYellow)
	colorField   = color.New(color.FgCyan)
	colorValue   = color.New(color.FgWhite, color.Bold)
	colorIllegal = color.New(color.FgRed, color.Bold)
	colorTrap    = color.New(color.FgMagenta)
)

var configFlag = &cli.StringFlag{
	Name:  "config",
	Usage: "path to a core configuration JSON file",
}

var secondPhaseFlag = &cli.BoolFlag{
	Name:  "second-phase",
	Usage: "decode as the second presentation of the instruction",
}

var branchTakenFlag = &cli.BoolFlag{
	Name:  "branch-taken",
	Usage: "feed a taken branch outcome back into decode",
}

// DecodeCommand decodes hex-encoded instruction words and prints the
// resulting control signals.
var DecodeCommand = &cli.Command{
	Name:      "decode",
	Usage:     "decode instruction words into control signals",
	ArgsUsage: "<hex-word> [<hex-word>...]",
	Flags: []cli.Flag{
		configFlag,
		secondPhaseFlag,
		branchTakenFlag,
	},
	Action: decodeAction,
}

func loadCoreConfig(ctx *cli.Context) (*decode.CoreConfig, error) {
	if path := ctx.String(configFlag.Name); path != "" {
		return decode.LoadConfig(path)
	}
	return decode.DefaultCoreConfig(), nil
}

func decodeAction(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return fmt.Errorf("no instruction words given")
	}

	cfg, err := loadCoreConfig(ctx)
	if err != nil {
		return err
	}
	decoder := decode.NewDecoder(*cfg)

	phase := decode.PhaseFirst
	if ctx.Bool(secondPhaseFlag.Name) {
		phase = decode.PhaseSecond
	}
	branchTaken := ctx.Bool(branchTakenFlag.Name)

	for _, arg := range ctx.Args().Slice() {
		word, err := parseWord(arg)
		if err != nil {
			return err
		}

		instr := insts.Instruction(word)
		sig := decoder.Decode(instr, phase, false, branchTaken)
		printSignals(instr, sig)
	}
	return nil
}

func parseWord(arg string) (uint32, error) {
	s := strings.TrimPrefix(strings.ToLower(arg), "0x")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid instruction word %q: %w", arg, err)
	}
	return uint32(v), nil
}

func printSignals(instr insts.Instruction, sig decode.ControlSignals) {
	_, _ = colorWord.Printf("0x%08x", uint32(instr))
	fmt.Printf("  opcode=0b%07b funct3=0b%03b rd=x%d rs1=x%d rs2=x%d\n",
		uint8(instr.Opcode()), instr.Funct3(), instr.Rd(), instr.Rs1(), instr.Rs2())

	if sig.Illegal {
		_, _ = colorIllegal.Println("  illegal")
		return
	}
	if sig.Trap != decode.TrapNone {
		_, _ = colorTrap.Printf("  trap=%s\n", sig.Trap)
	}

	printField("alu", "%s a=%s", sig.ALU.Op, sig.ALU.OpASel)
	if sig.ALU.OpBSel == decode.OpBImm {
		fmt.Printf(" b=%s", sig.ALU.ImmBSel)
	} else if sig.ALU.UseRs3 {
		fmt.Print(" b=rs3")
	} else {
		fmt.Print(" b=rs2")
	}
	fmt.Println()

	if sig.RegWrite {
		printField("rd", "write x%d", instr.Rd())
		fmt.Println()
	}
	if sig.Jump {
		printField("jump", "set=%v", sig.JumpSet)
		fmt.Println()
	}
	if sig.Branch {
		printField("branch", "%s", sig.ALU.Op)
		fmt.Println()
	}
	if sig.ICacheInval {
		printField("icache", "invalidate")
		fmt.Println()
	}
	if sig.DataReq {
		kind := "load"
		if sig.DataWrite {
			kind = "store"
		}
		printField("mem", "%s %s signext=%v", kind, sig.DataWidth, sig.DataSignExt)
		fmt.Println()
	}
	if sig.CSRAccess {
		printField("csr", "%s addr=0x%03x", sig.CSROp, instr.Imm12())
		fmt.Println()
	}
	if sig.MultDivEn {
		printField("multdiv", "%s signed=0b%02b", sig.MultDivOp, uint8(sig.MultDivSigned))
		fmt.Println()
	}
	if sig.IPMEn {
		printField("ipm", "%s", sig.IPMOp)
		fmt.Println()
	}
	if sig.ALU.Multicycle {
		printField("seq", "multicycle")
		fmt.Println()
	}
}

func printField(name, format string, args ...interface{}) {
	fmt.Print("  ")
	_, _ = colorField.Printf("%-8s", name)
	_, _ = colorValue.Printf(format, args...)
}
