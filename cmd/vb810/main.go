// Command vb810 is a demonstration host for the Virtual Boy core: an
// ebiten-driven window for interactive play, plus headless subcommands for
// the battery-RAM and savestate operations the core exposes but does not
// itself perform I/O for.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/bdwalton/vb810/system"
)

var sramPath string

var rootCmd = &cobra.Command{
	Use:   "vb810 rom.vb",
	Short: "vb810 is a Virtual Boy emulator",
	Long:  "vb810 is a Virtual Boy emulator",
	Args:  cobra.ExactArgs(1),
	Run:   runInteractive,
}

var dumpRAMCmd = &cobra.Command{
	Use:   "dump-ram rom.vb out.ram",
	Short: "write the cartridge's battery RAM to a file",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		sys := newSystemOrDie(args[0])
		if err := os.WriteFile(args[1], sys.DumpRAM(), 0o644); err != nil {
			log.Fatalf("vb810: write ram file: %v", err)
		}
	},
}

var loadRAMCmd = &cobra.Command{
	Use:   "load-ram rom.vb in.ram out.ram",
	Short: "load battery RAM into a fresh cartridge and re-dump it",
	Long: "load-ram validates that in.ram is an acceptable size for the " +
		"cartridge's SRAM watermark by round-tripping it through LoadRAM/DumpRAM.",
	Args: cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[1])
		if err != nil {
			log.Fatalf("vb810: read ram file: %v", err)
		}
		sys := newSystemOrDie(args[0])
		if err := sys.LoadRAM(data); err != nil {
			log.Fatalf("vb810: load ram: %v", err)
		}
		if err := os.WriteFile(args[2], sys.DumpRAM(), 0o644); err != nil {
			log.Fatalf("vb810: write ram file: %v", err)
		}
	},
}

var createSavestateFrames int

var createSavestateCmd = &cobra.Command{
	Use:   "create-savestate rom.vb out.state",
	Short: "boot a ROM headlessly and write a savestate after warming up",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		sys := newSystemOrDie(args[0])
		for i := 0; i < createSavestateFrames; i++ {
			sys.RunAudioFrame(pollInputs(), samplesPerUpdate)
		}
		if err := os.WriteFile(args[1], sys.CreateSavestate(), 0o644); err != nil {
			log.Fatalf("vb810: write savestate file: %v", err)
		}
	},
}

var loadSavestateCmd = &cobra.Command{
	Use:   "load-savestate rom.vb in.state",
	Short: "resume an interactive session from a savestate",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		sys := newSystemOrDie(args[0])
		data, err := os.ReadFile(args[1])
		if err != nil {
			log.Fatalf("vb810: read savestate file: %v", err)
		}
		if err := sys.LoadSavestate(data); err != nil {
			log.Fatalf("vb810: load savestate: %v", err)
		}
		runGame(sys)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&sramPath, "sram", "", "optional battery RAM file to load before running and save on exit")
	createSavestateCmd.Flags().IntVar(&createSavestateFrames, "frames", 60, "number of video frames to run before snapshotting")

	rootCmd.AddCommand(dumpRAMCmd, loadRAMCmd, createSavestateCmd, loadSavestateCmd)
}

func newSystemOrDie(romPath string) *system.System {
	rom, err := os.ReadFile(romPath)
	if err != nil {
		log.Fatalf("vb810: read rom: %v", err)
	}
	sys, err := system.New(rom)
	if err != nil {
		log.Fatalf("vb810: invalid rom: %v", err)
	}
	return sys
}

func runInteractive(cmd *cobra.Command, args []string) {
	sys := newSystemOrDie(args[0])
	if sramPath != "" {
		if data, err := os.ReadFile(sramPath); err == nil {
			if err := sys.LoadRAM(data); err != nil {
				log.Fatalf("vb810: load sram: %v", err)
			}
		}
	}
	runGame(sys)
	if sramPath != "" {
		if err := os.WriteFile(sramPath, sys.DumpRAM(), 0o644); err != nil {
			log.Fatalf("vb810: save sram: %v", err)
		}
	}
}

func runGame(sys *system.System) {
	game, err := NewGame(sys)
	if err != nil {
		log.Fatalf("vb810: %v", err)
	}
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
