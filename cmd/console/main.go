package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"gochip8/pkg/chip8"
	"gochip8/pkg/grid"
)

// keyMap translates stdin bytes onto the 4×4 pad, same layout as the
// desktop frontend: 1234/qwer/asdf/zxcv map to 123C/456D/789E/A0BF.
var keyMap = map[byte]int{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// keyHoldFrames is how many 60 Hz frames a key stays latched after a byte
// arrives. A raw terminal delivers no release events, so release is
// approximated by expiry.
const keyHoldFrames = 6

func readStdin(keys chan<- byte) {
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			close(keys)
			return
		}
		if n > 0 {
			keys <- buf[0]
		}
	}
}

// render redraws the whole display in place: cursor home, then one text
// row per bitmap row, two columns per pixel.
func render(vm *chip8.Machine) {
	var sb strings.Builder
	sb.WriteString("\x1b[H")
	for i, on := range vm.Display {
		if x, _ := grid.GetGridCoords(i, chip8.ScreenWidth); x == 0 && i > 0 {
			sb.WriteString("\r\n")
		}
		if on {
			sb.WriteString("██")
		} else {
			sb.WriteString("  ")
		}
	}
	sb.WriteString("\r\n")
	fmt.Print(sb.String())
}

func run(romPath string, cycles int) error {
	rom, err := os.ReadFile(romPath)
	if err != nil {
		return err
	}

	vm := chip8.New()
	if err := vm.Load(rom); err != nil {
		return err
	}

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("cannot enter raw mode: %w", err)
	}
	defer term.Restore(int(os.Stdin.Fd()), oldState)

	fmt.Print("\x1b[2J\x1b[?25l") // clear screen, hide cursor
	defer fmt.Print("\x1b[?25h")

	keys := make(chan byte, 8)
	go readStdin(keys)

	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	var hold [chip8.NumKeys]int
	for {
		select {
		case b, ok := <-keys:
			if !ok || b == 3 || b == 27 { // EOF, ctrl-C, esc
				return nil
			}
			if pad, mapped := keyMap[b]; mapped {
				vm.SetKey(pad, true)
				hold[pad] = keyHoldFrames
			}

		case <-ticker.C:
			for pad := range hold {
				if hold[pad] > 0 {
					hold[pad]--
					if hold[pad] == 0 {
						vm.SetKey(pad, false)
					}
				}
			}

			for i := 0; i < cycles; i++ {
				if err := vm.Step(); err != nil {
					render(vm)
					return err
				}
			}
			vm.TickTimers()
			render(vm)
		}
	}
}

func main() {
	cycles := flag.Int("cycles", 10, "instruction steps per 60Hz frame")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: console [flags] <rom>")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *cycles); err != nil {
		log.Fatalf("console: %v", err)
	}
}
