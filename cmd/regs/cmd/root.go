package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceRegs/internal/translate"
	"github.com/OpenTraceLab/OpenTraceRegs/pkg/device"
	"github.com/OpenTraceLab/OpenTraceRegs/pkg/regdef"
	"github.com/OpenTraceLab/OpenTraceRegs/pkg/regscript"
)

var (
	// Global flags
	verbose      bool
	descriptions bool
)

var rootCmd = &cobra.Command{
	Use:   "regs",
	Short: "Register map inspector and JTAG pattern generator",
	Long: `Load register maps from .regs definition files or Starlark scripts,
inspect field layouts and status strings, and generate JTAG vectors for
register transactions.

Examples:
  regs show timer.regs                               # List registers and fields
  regs status timer.regs tcu --field mike --set 5    # Status after a write
  regs pattern timer.star tcu --ir 0x2 --ir-len 4 --read`,
	Version:      "0.1.0",
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	log.SetFlags(0)
	log.SetPrefix("regs: ")

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&descriptions, "descriptions", true, "keep register and field descriptions")
}

// loadDevice reads a register map. Files ending in .star or .py are run as
// Starlark scripts, anything else is parsed as a definition file.
func loadDevice(path string) (*device.Device, error) {
	if verbose {
		log.Printf("loading %s (messages in %s)", path, translate.Language())
	}
	var (
		dev *device.Device
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".star", ".py":
		dev, err = regscript.LoadFile(path, descriptions)
	default:
		dev, err = regdef.LoadFile(path, descriptions)
	}
	if err != nil {
		return nil, err
	}
	if verbose {
		log.Printf("loaded %d registers from %s", dev.Len(), path)
	}
	return dev, nil
}

func parseValue(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: %w", s, err)
	}
	return v, nil
}
