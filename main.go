//go:build !js

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"gochip8/pkg/chip8"
	"gochip8/pkg/grid"
)

// asciiScreen renders the display as text, one character per pixel, for
// headless inspection.
func asciiScreen(m *chip8.Machine) string {
	var sb strings.Builder
	for y := 0; y < chip8.ScreenHeight; y++ {
		for x := 0; x < chip8.ScreenWidth; x++ {
			if m.Display[grid.GetGridIndex(x, y, chip8.ScreenWidth)] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// runFrames drives the two step cadences the way the interactive frontends
// do: cycles instruction steps per frame, one timer tick per frame.
func runFrames(m *chip8.Machine, frames, cycles int) error {
	for f := 0; f < frames; f++ {
		for i := 0; i < cycles; i++ {
			if err := m.Step(); err != nil {
				return err
			}
		}
		m.TickTimers()
	}
	return nil
}

func main() {
	frames := flag.Int("frames", 600, "number of 60Hz frames to run")
	cycles := flag.Int("cycles", 10, "instruction steps per frame")
	screenshot := flag.String("screenshot", "", "write the final display to this PNG file")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: gochip8 [flags] <rom>")
		flag.Usage()
		os.Exit(2)
	}
	romPath := flag.Arg(0)

	rom, err := os.ReadFile(romPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read ROM %q: %v\n", romPath, err)
		os.Exit(1)
	}

	vm := chip8.New()
	if err := vm.Load(rom); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load ROM %q: %v\n", romPath, err)
		os.Exit(1)
	}

	runErr := runFrames(vm, *frames, *cycles)

	fmt.Print(asciiScreen(vm))
	if *screenshot != "" {
		if err := vm.SaveScreenshot(*screenshot); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write screenshot %q: %v\n", *screenshot, err)
			os.Exit(1)
		}
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "execution halted: %v\n", runErr)
		os.Exit(1)
	}
}
