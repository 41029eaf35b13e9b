package decode

import (
	"encoding/json"
	"fmt"
	"os"
)

// MultDivImpl selects the multiply/divide implementation variant.
type MultDivImpl string

// Multiply/divide implementation variants.
const (
	// MultDivFast completes every operation in a single cycle.
	MultDivFast MultDivImpl = "fast"
	// MultDivSlow models an iterative unit that signals valid only after
	// a data-dependent number of cycles.
	MultDivSlow MultDivImpl = "slow"
)

// CoreConfig holds the static configuration of a core instance. It is
// fixed at construction and never mutated afterwards; the decoders branch
// on it but never change it.
type CoreConfig struct {
	// RV32E reduces the register file to 16 registers. Referencing x16
	// or above on a consumed operand is then illegal.
	RV32E bool `json:"rv32e"`

	// RV32M enables the multiply/divide instruction family.
	RV32M bool `json:"rv32m"`

	// RV32B enables the bit-manipulation instruction families.
	RV32B bool `json:"rv32b"`

	// BranchTargetALU adds a dedicated adder for branch and jump targets,
	// so jumps resolve in a single cycle and the main ALU keeps the link
	// value computation.
	BranchTargetALU bool `json:"branch_target_alu"`

	// MultDiv selects the multiply/divide implementation variant.
	MultDiv MultDivImpl `json:"multdiv_impl"`
}

// DefaultCoreConfig returns the baseline configuration: RV32IM with the
// single-cycle multiplier, no bit manipulation, no dedicated
// branch-target adder, full 32-register file.
func DefaultCoreConfig() *CoreConfig {
	return &CoreConfig{
		RV32E:           false,
		RV32M:           true,
		RV32B:           false,
		BranchTargetALU: false,
		MultDiv:         MultDivFast,
	}
}

// LoadConfig loads a CoreConfig from a JSON file. Fields absent from the
// file keep their default values.
func LoadConfig(path string) (*CoreConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read core config file: %w", err)
	}

	config := DefaultCoreConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse core config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig writes a CoreConfig to a JSON file.
func (c *CoreConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize core config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write core config file: %w", err)
	}

	return nil
}

// Validate checks the configuration for internal consistency.
func (c *CoreConfig) Validate() error {
	switch c.MultDiv {
	case MultDivFast, MultDivSlow:
	case "":
		return fmt.Errorf("multdiv_impl must be set")
	default:
		return fmt.Errorf("unknown multdiv_impl %q", c.MultDiv)
	}
	if !c.RV32M && c.MultDiv == MultDivSlow {
		return fmt.Errorf("multdiv_impl %q requires rv32m", c.MultDiv)
	}
	return nil
}

// Clone returns a copy of the CoreConfig.
func (c *CoreConfig) Clone() *CoreConfig {
	clone := *c
	return &clone
}
