package main

import "github.com/OpenTraceLab/OpenTraceRegs/cmd/regs/cmd"

func main() {
	cmd.Execute()
}
