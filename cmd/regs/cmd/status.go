package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceRegs/pkg/regs"
)

var (
	statusField   string
	statusSet     string
	statusRead    bool
	statusCapture bool
	statusOverlay string
)

var statusCmd = &cobra.Command{
	Use:   "status <file> <register>",
	Short: "Show write and read status strings for a register",
	Long: `Apply the requested operations to a register (or one of its fields) and
print the write and read status strings.

Status strings show one character per nibble: a hex digit for plain data,
X for bits that are not read, S for captured bits, V for overlaid bits and
? for undefined bits. Mixed nibbles are printed bit by bit in brackets.

Examples:
  regs status timer.regs tcu
  regs status timer.regs tcu --field mike --set 0x5 --read
  regs status timer.regs tcu --capture --overlay sub`,
	Args: cobra.ExactArgs(2),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVarP(&statusField, "field", "f", "", "operate on one field")
	statusCmd.Flags().StringVarP(&statusSet, "set", "s", "", "value to write")
	statusCmd.Flags().BoolVarP(&statusRead, "read", "r", false, "mark the bits to be read")
	statusCmd.Flags().BoolVarP(&statusCapture, "capture", "c", false, "mark the bits to be captured")
	statusCmd.Flags().StringVar(&statusOverlay, "overlay", "", "overlay label")
}

// target resolves the register argument plus an optional field flag.
func target(args []string, field string) (*regs.Register, *regs.BitCollection, error) {
	dev, err := loadDevice(args[0])
	if err != nil {
		return nil, nil, err
	}
	path := args[1]
	if field != "" {
		path += "." + field
	}
	bc, err := dev.Lookup(path)
	if err != nil {
		return nil, nil, err
	}
	return dev.Reg(args[1]), bc, nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	reg, bc, err := target(args, statusField)
	if err != nil {
		return err
	}

	if statusSet != "" {
		v, err := parseValue(statusSet)
		if err != nil {
			return err
		}
		if _, err := bc.SetData(v); err != nil {
			return err
		}
	}
	if statusRead {
		bc.Read()
	}
	if statusCapture {
		bc.Capture()
	}
	if statusOverlay != "" {
		bc.SetOverlay(statusOverlay)
	}

	write, err := bc.StatusStr("write")
	if err != nil {
		return err
	}
	read, err := bc.StatusStr("read")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, reg)
	fmt.Fprintf(out, "write: %s\n", write)
	fmt.Fprintf(out, "read:  %s\n", read)
	if verbose {
		fmt.Fprintf(out, "update required: %v\n", reg.IsUpdateRequired())
	}
	return nil
}
