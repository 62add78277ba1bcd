package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceRegs/pkg/pattern"
)

var (
	patternField string
	patternSet   string
	patternRead  bool
	patternIR    string
	patternIRLen int
)

var patternCmd = &cobra.Command{
	Use:   "pattern <file> <register>",
	Short: "Generate JTAG vectors for a register transaction",
	Long: `Reset the TAP, optionally load an instruction, then shift the register
through the data register path. Without --read the register is written;
with --read it is shifted again expecting the bits marked to be read.

Examples:
  regs pattern timer.regs tcu --set 0x5A
  regs pattern timer.regs tcu --ir 0x2 --ir-len 4 --field mike --read`,
	Args: cobra.ExactArgs(2),
	RunE: runPattern,
}

func init() {
	rootCmd.AddCommand(patternCmd)

	patternCmd.Flags().StringVarP(&patternField, "field", "f", "", "read or write one field")
	patternCmd.Flags().StringVarP(&patternSet, "set", "s", "", "value to write before shifting")
	patternCmd.Flags().BoolVarP(&patternRead, "read", "r", false, "generate a read instead of a write")
	patternCmd.Flags().StringVar(&patternIR, "ir", "", "instruction to load before the data shift")
	patternCmd.Flags().IntVar(&patternIRLen, "ir-len", 0, "instruction register length")
}

func runPattern(cmd *cobra.Command, args []string) error {
	reg, bc, err := target(args, patternField)
	if err != nil {
		return err
	}

	if patternSet != "" {
		v, err := parseValue(patternSet)
		if err != nil {
			return err
		}
		if _, err := bc.SetData(v); err != nil {
			return err
		}
	}

	j := pattern.New()
	j.Reset()
	if patternIR != "" {
		if patternIRLen <= 0 {
			return fmt.Errorf("--ir requires --ir-len")
		}
		ir, err := parseValue(patternIR)
		if err != nil {
			return err
		}
		if err := j.WriteIR(ir, patternIRLen); err != nil {
			return err
		}
	}

	// the whole register is always shifted, the field only selects what is read
	if patternRead {
		bc.Read()
		err = j.ReadDR(reg.BitCollection)
	} else {
		err = j.WriteDR(reg.BitCollection)
	}
	if err != nil {
		return err
	}
	if verbose {
		log.Printf("%s: %d cycles", reg.Name, j.Cycles())
	}
	return j.Render(cmd.OutOrStdout())
}
