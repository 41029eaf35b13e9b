// Package main provides the entry point stub for the RV32 decoder and
// core model.
//
// For the full CLI, use: go run ./cmd/rv32dec
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("rv32dec - RV32 instruction decoder and functional core")
	fmt.Println("")
	fmt.Println("Usage: rv32dec <command> [options]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  decode     Decode instruction words into control signals")
	fmt.Println("  run        Run an RV32 program on the functional core")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/rv32dec' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/rv32dec' instead.")
	}
}
