package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "List registers, fields and reset values",
	Long: `Load a register map and print every register with its fields in offset
order. Unused bit ranges are listed as holes.

Examples:
  regs show timer.regs
  regs show --descriptions=false timer.star`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	dev, err := loadDevice(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if dev.Name != "" {
		fmt.Fprintf(out, "Device: %s\n\n", dev.Name)
	}
	for _, reg := range dev.Regs() {
		fmt.Fprintf(out, "%s  (%d bits, %s)\n", reg, reg.Size(), reg.BitOrder())
		if reg.Description != "" {
			fmt.Fprintf(out, "  %s\n", indent(reg.Description))
		}
		for fs := range reg.FieldsByOffset() {
			span := fmt.Sprintf("[%d]", fs.Offset)
			if fs.Width > 1 {
				span = fmt.Sprintf("[%d:%d]", fs.Offset+fs.Width-1, fs.Offset)
			}
			if fs.Spacer {
				fmt.Fprintf(out, "  %-9s -\n", span)
				continue
			}
			fld := reg.Field(fs.Name)
			fmt.Fprintf(out, "  %-9s %-16s %-4s reset 0x%X", span, fs.Name, fs.Access, fld.ResetVal())
			if !fld.HasKnownValue() {
				fmt.Fprint(out, " (undefined bits)")
			}
			fmt.Fprintln(out)
		}
		for _, fld := range reg.Fields() {
			if fld.Description != "" {
				fmt.Fprintf(out, "    %s: %s\n", fld.Name, indent(fld.Description))
			}
		}
		fmt.Fprintln(out)
	}
	return nil
}

func indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n    ")
}
