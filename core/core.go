// Package core provides the functional RV32 core model: a small pipeline
// controller that drives the pure decoders, re-presents multi-cycle
// instructions with an advanced phase, feeds branch outcomes back, and
// commits architectural state.
package core

import (
	"fmt"

	"github.com/GengLUO/coco-ibex-ipmfd/decode"
	"github.com/GengLUO/coco-ibex-ipmfd/emu"
	"github.com/GengLUO/coco-ibex-ipmfd/insts"
	"github.com/GengLUO/coco-ibex-ipmfd/timing/icache"
)

// Machine trap causes written to mcause.
const (
	causeIllegalInstruction = 2
	causeBreakpoint         = 3
	causeECallM             = 11
)

// maxUnitCycles bounds how long the controller waits for a specialized
// unit before giving up. The slow divider is the worst case.
const maxUnitCycles = 64

// StepResult reports what one instruction step did.
type StepResult struct {
	// PC is the address of the instruction that was presented.
	PC uint32

	// Instr is the raw instruction word.
	Instr insts.Instruction

	// Illegal reports that the instruction was rejected; nothing was
	// committed this step.
	Illegal bool

	// Trap is the trap-like instruction retired this step, if any.
	Trap decode.Trap

	// Cycles is the number of decode presentations the instruction took.
	Cycles int

	// Err is set for model-level failures, such as dispatching to a
	// masked-arithmetic unit that is not fitted.
	Err error
}

// Core is a functional single-hart RV32 model.
type Core struct {
	cfg     decode.CoreConfig
	decoder *decode.Decoder
	regFile *emu.RegFile
	alu     *emu.ALU
	multdiv emu.MultDiv
	slowMD  *emu.SlowMultDiv
	ipm     emu.IPMUnit
	ex      *emu.ExBlock
	lsu     *emu.LoadStoreUnit
	csrs    *emu.CSRFile
	memory  *emu.Memory
	icache  *icache.Cache

	pc               uint32
	instructionCount uint64

	stepHook func(StepResult)
}

// Option is a functional option for configuring the Core.
type Option func(*Core)

// WithIPMUnit fits a masked-arithmetic unit.
func WithIPMUnit(u emu.IPMUnit) Option {
	return func(c *Core) { c.ipm = u }
}

// WithICache fits an instruction cache in front of the memory.
func WithICache(cache *icache.Cache) Option {
	return func(c *Core) { c.icache = cache }
}

// WithICacheConfig fits an instruction cache with the given geometry,
// backed by the core's own memory.
func WithICacheConfig(cfg icache.Config) Option {
	return func(c *Core) {
		c.icache = icache.New(cfg, icache.NewMemoryBacking(c.memory))
	}
}

// WithStepHook registers a callback invoked after every step taken by
// Run. Used for instruction tracing.
func WithStepHook(fn func(StepResult)) Option {
	return func(c *Core) { c.stepHook = fn }
}

// WithPC sets the reset program counter.
func WithPC(pc uint32) Option {
	return func(c *Core) { c.pc = pc }
}

// NewCore creates a core with the given static configuration.
func NewCore(cfg *decode.CoreConfig, opts ...Option) *Core {
	c := &Core{
		cfg:     *cfg,
		decoder: decode.NewDecoder(*cfg),
		regFile: emu.NewRegFile(cfg.RV32E),
		alu:     emu.NewALU(),
		csrs:    emu.NewCSRFile(),
		memory:  emu.NewMemory(),
	}

	if cfg.MultDiv == decode.MultDivSlow {
		c.slowMD = emu.NewSlowMultDiv(c.alu.Imd())
		c.multdiv = c.slowMD
	} else {
		c.multdiv = emu.NewFastMultDiv()
	}

	for _, opt := range opts {
		opt(c)
	}

	c.ex = emu.NewExBlock(c.cfg, c.alu, c.multdiv, c.ipm)
	c.lsu = emu.NewLoadStoreUnit(c.memory)
	return c
}

// RegFile returns the core's register file.
func (c *Core) RegFile() *emu.RegFile { return c.regFile }

// Memory returns the core's memory.
func (c *Core) Memory() *emu.Memory { return c.memory }

// CSRs returns the core's CSR file.
func (c *Core) CSRs() *emu.CSRFile { return c.csrs }

// ICache returns the fitted instruction cache, or nil.
func (c *Core) ICache() *icache.Cache { return c.icache }

// PC returns the current program counter.
func (c *Core) PC() uint32 { return c.pc }

// InstructionCount returns the number of instructions retired.
func (c *Core) InstructionCount() uint64 { return c.instructionCount }

// LoadProgram copies a flat binary into memory at entry and points the
// program counter at it.
func (c *Core) LoadProgram(entry uint32, program []byte) {
	c.memory.LoadBytes(entry, program)
	c.pc = entry
}

// fetch reads the instruction word at pc, through the instruction cache
// when one is fitted.
func (c *Core) fetch(pc uint32) uint32 {
	if c.icache != nil {
		return c.icache.ReadWord(pc).Word
	}
	return c.memory.Read32(pc)
}

// immB returns the operand B immediate for the given selector.
func immB(sel decode.ImmBSel, imm insts.ImmediateSet) uint32 {
	switch sel {
	case decode.ImmBI:
		return imm.I
	case decode.ImmBS:
		return imm.S
	case decode.ImmBB:
		return imm.B
	case decode.ImmBU:
		return imm.U
	case decode.ImmBJ:
		return imm.J
	default:
		return 4
	}
}

// operands muxes the ALU and branch-target adder operands for one cycle.
// On the second cycle of a ternary operation the register B read port
// carries the third source register.
func (c *Core) operands(instr insts.Instruction, imm insts.ImmediateSet,
	sig decode.ControlSignals, pc uint32) (opA, opB, btA, btB uint32) {
	switch sig.ALU.OpASel {
	case decode.OpARegA:
		opA = c.regFile.Read(instr.Rs1())
	case decode.OpACurrPC:
		opA = pc
	case decode.OpAImmZ:
		opA = imm.Z
	case decode.OpAZero:
		opA = 0
	}

	switch {
	case sig.ALU.UseRs3:
		opB = c.regFile.Read(instr.Rs3())
	case sig.ALU.OpBSel == decode.OpBImm:
		opB = immB(sig.ALU.ImmBSel, imm)
	default:
		opB = c.regFile.Read(instr.Rs2())
	}

	if sig.ALU.BTAluA == decode.OpARegA {
		btA = c.regFile.Read(instr.Rs1())
	} else {
		btA = pc
	}
	btB = immB(sig.ALU.BTAluB, imm)
	return opA, opB, btA, btB
}

// Step presents one instruction to the decode/execute model, sequencing
// additional phases as needed, and commits its architectural effects.
func (c *Core) Step() StepResult {
	pc := c.pc
	instr := insts.Instruction(c.fetch(pc))
	imm := insts.Immediates(instr)
	result := StepResult{PC: pc, Instr: instr, Cycles: 1}

	sig := c.decoder.Decode(instr, decode.PhaseFirst, false, false)

	if sig.Illegal {
		result.Illegal = true
		c.trap(pc, causeIllegalInstruction)
		return result
	}

	opA, opB, btA, btB := c.operands(instr, imm, sig, pc)
	ex := c.ex.Execute(sig, opA, opB, btA, btB, true)

	switch {
	case sig.Trap != decode.TrapNone:
		c.retireTrap(pc, sig.Trap, &result)

	case sig.CSRAccess:
		c.retireCSR(instr, imm, sig)
		c.pc = pc + 4

	case sig.Jump:
		c.retireJump(instr, imm, sig, ex, pc, &result)

	case sig.Branch:
		c.retireBranch(instr, imm, sig, ex, pc, &result)

	case sig.DataReq:
		c.retireMemory(instr, sig, ex, pc)

	case sig.IPMEn:
		if err := c.retireIPM(instr, sig, ex, opA, opB, btA, btB, pc, &result); err != nil {
			result.Err = err
			return result
		}

	case sig.MultDivEn:
		c.retireMultDiv(instr, sig, ex, opA, opB, btA, btB, pc, &result)

	case sig.ALU.Multicycle:
		c.retireMulticycleALU(instr, imm, sig, pc, &result)

	default:
		c.regFile.Write(instr.Rd(), ex.Result, sig.RegWrite)
		c.pc = pc + 4
	}

	c.instructionCount++
	return result
}

// trap records the cause and vectors to mtvec. With no trap vector
// configured the program counter is left in place so run loops halt.
func (c *Core) trap(pc uint32, cause uint32) {
	c.csrs.Write(emu.CSRMEPC, pc)
	c.csrs.Write(emu.CSRMCause, cause)
	if mtvec := c.csrs.Read(emu.CSRMTVec); mtvec != 0 {
		c.pc = mtvec &^ 0x3
	}
}

// retireTrap handles the trap-like instructions.
func (c *Core) retireTrap(pc uint32, trap decode.Trap, result *StepResult) {
	result.Trap = trap
	switch trap {
	case decode.TrapECall:
		c.trap(pc, causeECallM)
	case decode.TrapEBreak:
		c.trap(pc, causeBreakpoint)
	case decode.TrapMRet, decode.TrapDRet:
		c.pc = c.csrs.Read(emu.CSRMEPC)
	case decode.TrapWFI:
		// Wait-for-interrupt retires as a hint.
		c.pc = pc + 4
	}
}

// retireCSR applies the CSR operation. Set and clear with a zero operand
// field have already been downgraded to reads by the decoder.
func (c *Core) retireCSR(instr insts.Instruction, imm insts.ImmediateSet, sig decode.ControlSignals) {
	var operand uint32
	if sig.ALU.OpASel == decode.OpAImmZ {
		operand = imm.Z
	} else {
		operand = c.regFile.Read(instr.Rs1())
	}
	old := c.csrs.Apply(sig.CSROp, instr.Imm12(), operand)
	c.regFile.Write(instr.Rd(), old, sig.RegWrite)
}

// retireJump handles JAL, JALR, and the instruction-stream fence.
func (c *Core) retireJump(instr insts.Instruction, imm insts.ImmediateSet,
	sig decode.ControlSignals, ex emu.ExResult, pc uint32, result *StepResult) {
	if sig.ICacheInval && c.icache != nil {
		c.icache.InvalidateAll()
	}

	target := ex.BranchTarget
	if instr.Opcode() == insts.OpcodeJALR {
		target &^= 1
	}

	if c.cfg.BranchTargetALU {
		// Single cycle: the dedicated adder produced the target while
		// the main ALU produced the link value.
		c.regFile.Write(instr.Rd(), ex.Result, sig.RegWrite)
		c.pc = target
		return
	}

	// Two-cycle fallback: the first presentation computed the target
	// through the main ALU; the second computes the link value.
	if !sig.RegWrite && instr.Opcode() != insts.OpcodeMiscMem {
		sig2 := c.decoder.Decode(instr, decode.PhaseSecond, false, false)
		opA, opB, _, _ := c.operands(instr, imm, sig2, pc)
		ex2 := c.ex.Execute(sig2, opA, opB, 0, 0, false)
		c.regFile.Write(instr.Rd(), ex2.Result, sig2.RegWrite)
		result.Cycles++
	}
	c.pc = target
}

// retireBranch resolves a conditional branch.
func (c *Core) retireBranch(instr insts.Instruction, imm insts.ImmediateSet,
	sig decode.ControlSignals, ex emu.ExResult, pc uint32, result *StepResult) {
	taken := ex.Cmp

	if c.cfg.BranchTargetALU {
		// The outcome feeds straight back into the target-immediate
		// select; the dedicated adder resolves in the same cycle.
		sigFB := c.decoder.Decode(instr, decode.PhaseFirst, false, taken)
		_, _, btA, btB := c.operands(instr, imm, sigFB, pc)
		c.pc = btA + btB
		return
	}

	if !taken {
		c.pc = pc + 4
		return
	}

	// Taken branch without a dedicated adder: a second cycle reuses the
	// main adder for the target.
	sig2 := c.decoder.Decode(instr, decode.PhaseSecond, false, taken)
	opA, opB, _, _ := c.operands(instr, imm, sig2, pc)
	ex2 := c.ex.Execute(sig2, opA, opB, 0, 0, false)
	c.pc = ex2.Result
	result.Cycles++
}

// retireMemory performs the load or store transaction. The register
// write for a load is asserted by the load-store unit when the data
// returns, not by the decoder.
func (c *Core) retireMemory(instr insts.Instruction, sig decode.ControlSignals,
	ex emu.ExResult, pc uint32) {
	addr := ex.Result
	if sig.DataWrite {
		c.lsu.Store(addr, sig.DataWidth, c.regFile.Read(instr.Rs2()))
	} else {
		data := c.lsu.Load(addr, sig.DataWidth, sig.DataSignExt)
		c.regFile.Write(instr.Rd(), data, true)
	}
	c.pc = pc + 4
}

// retireIPM waits for the masked-arithmetic unit. The first execution
// cycle already ran and is passed in.
func (c *Core) retireIPM(instr insts.Instruction, sig decode.ControlSignals,
	ex emu.ExResult, opA, opB, btA, btB uint32, pc uint32, result *StepResult) error {
	if c.ipm == nil {
		return fmt.Errorf("masked-arithmetic instruction at 0x%08x but no unit fitted", pc)
	}
	for !ex.Valid {
		if result.Cycles >= maxUnitCycles {
			return fmt.Errorf("masked-arithmetic unit did not complete within %d cycles", maxUnitCycles)
		}
		result.Cycles++
		ex = c.ex.Execute(sig, opA, opB, btA, btB, true)
	}
	c.regFile.Write(instr.Rd(), ex.Result, sig.RegWrite)
	c.pc = pc + 4
	return nil
}

// retireMultDiv re-presents a multiply/divide instruction until the unit
// reports valid. The first execution cycle already ran and is passed in.
func (c *Core) retireMultDiv(instr insts.Instruction, sig decode.ControlSignals,
	ex emu.ExResult, opA, opB, btA, btB uint32, pc uint32, result *StepResult) {
	for !ex.Valid {
		if result.Cycles >= maxUnitCycles {
			// Abandon the sequence rather than spin forever.
			if c.slowMD != nil {
				c.slowMD.Cancel()
			}
			break
		}
		result.Cycles++
		ex = c.ex.Execute(sig, opA, opB, btA, btB, true)
	}
	if ex.Valid {
		c.regFile.Write(instr.Rd(), ex.Result, sig.RegWrite)
	}
	c.pc = pc + 4
}

// retireMulticycleALU runs the second cycle of a rotate, funnel-shift, or
// ternary operation.
func (c *Core) retireMulticycleALU(instr insts.Instruction, imm insts.ImmediateSet,
	sig decode.ControlSignals, pc uint32, result *StepResult) {
	sig2 := c.decoder.Decode(instr, decode.PhaseSecond, false, false)
	opA, opB, _, _ := c.operands(instr, imm, sig2, pc)
	ex2 := c.ex.Execute(sig2, opA, opB, 0, 0, false)
	c.regFile.Write(instr.Rd(), ex2.Result, sig2.RegWrite)
	c.pc = pc + 4
	result.Cycles++
}

// Run steps the core until an illegal instruction, an environment call or
// breakpoint with no trap vector configured, a model error, or the
// instruction limit. It returns the stopping step result.
func (c *Core) Run(maxInstructions uint64) StepResult {
	for {
		res := c.Step()
		if c.stepHook != nil {
			c.stepHook(res)
		}
		if res.Err != nil || res.Illegal {
			return res
		}
		if (res.Trap == decode.TrapECall || res.Trap == decode.TrapEBreak) &&
			c.csrs.Read(emu.CSRMTVec) == 0 {
			return res
		}
		if maxInstructions > 0 && c.instructionCount >= maxInstructions {
			return res
		}
	}
}
