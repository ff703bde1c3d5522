package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"gochip8/pkg/beep"
	"gochip8/pkg/chip8"
)

const sampleRate = 44100

// keyMap translates the 4×4 pad onto the left-hand block of a QWERTY
// keyboard: 1234/QWER/ASDF/ZXCV map to 123C/456D/789E/A0BF.
var keyMap = [chip8.NumKeys]ebiten.Key{
	0x0: ebiten.KeyX,
	0x1: ebiten.KeyDigit1,
	0x2: ebiten.KeyDigit2,
	0x3: ebiten.KeyDigit3,
	0x4: ebiten.KeyQ,
	0x5: ebiten.KeyW,
	0x6: ebiten.KeyE,
	0x7: ebiten.KeyA,
	0x8: ebiten.KeyS,
	0x9: ebiten.KeyD,
	0xA: ebiten.KeyZ,
	0xB: ebiten.KeyC,
	0xC: ebiten.KeyDigit4,
	0xD: ebiten.KeyR,
	0xE: ebiten.KeyF,
	0xF: ebiten.KeyV,
}

type Game struct {
	vm        *chip8.Machine
	rom       []byte
	beeper    *beep.Beeper // nil when muted or the device is unavailable
	screenImg *ebiten.Image
	cycles    int // instruction steps per 60 Hz frame
	scale     int
	lastErr   error
}

func (g *Game) Update() error {
	for i, k := range keyMap {
		g.vm.SetKey(i, ebiten.IsKeyPressed(k))
	}

	// F5 reloads the ROM from scratch.
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.vm.Reset()
		if err := g.vm.Load(g.rom); err != nil {
			return err
		}
		g.lastErr = nil
	}

	// Timers tick once per frame (60 Hz); instructions run at the
	// host-chosen multiple of that.
	if g.lastErr == nil {
		for i := 0; i < g.cycles; i++ {
			if err := g.vm.Step(); err != nil {
				g.lastErr = err
				log.Printf("execution halted: %v", err)
				break
			}
		}
		g.vm.TickTimers()
	}

	if g.beeper != nil {
		g.beeper.SetActive(g.lastErr == nil && g.vm.SoundTimer > 0)
	}

	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.screenImg == nil {
		g.screenImg = ebiten.NewImage(chip8.ScreenWidth, chip8.ScreenHeight)
	}

	g.screenImg.WritePixels(g.vm.GetFramebufferRGBA())

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.scale), float64(g.scale))
	screen.DrawImage(g.screenImg, op)

	if g.lastErr != nil {
		msg := fmt.Sprintf("halted: %v (F5 to restart)", g.lastErr)
		text.Draw(screen, msg, basicfont.Face7x13, 4, chip8.ScreenHeight*g.scale-6,
			color.RGBA{R: 0xFF, G: 0x50, B: 0x50, A: 0xFF})
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return chip8.ScreenWidth * g.scale, chip8.ScreenHeight * g.scale
}

func main() {
	cycles := flag.Int("cycles", 10, "instruction steps per 60Hz frame")
	scale := flag.Int("scale", 8, "display scale factor")
	mute := flag.Bool("mute", false, "disable the beeper")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: desktop [flags] <rom>")
		flag.Usage()
		os.Exit(2)
	}
	romPath := flag.Arg(0)

	rom, err := os.ReadFile(romPath)
	if err != nil {
		log.Fatalf("failed to read ROM %q: %v", romPath, err)
	}

	vm := chip8.New()
	if err := vm.Load(rom); err != nil {
		log.Fatalf("failed to load ROM %q: %v", romPath, err)
	}

	var beeper *beep.Beeper
	if !*mute {
		beeper, err = beep.New(sampleRate)
		if err != nil {
			// Run silent rather than refusing to start.
			log.Printf("audio unavailable: %v", err)
		} else {
			beeper.Start()
			defer beeper.Close()
		}
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(chip8.ScreenWidth**scale, chip8.ScreenHeight**scale)
	ebiten.SetWindowTitle("gochip8 - " + filepath.Base(romPath))

	game := &Game{
		vm:     vm,
		rom:    rom,
		beeper: beeper,
		cycles: *cycles,
		scale:  *scale,
	}
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
