// Package beep produces the machine's single sound: a square-wave tone
// that the host gates on whenever the sound counter is non-zero.
package beep

import (
	"encoding/binary"
	"math"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

const toneHz = 440.0

// Beeper streams a gate-controlled square wave to the audio device. The
// gate is lock-free so the host's frame loop can toggle it every frame;
// the mutex only guards setup/teardown.
type Beeper struct {
	ctx        *oto.Context
	player     *oto.Player
	sampleRate int
	active     atomic.Bool
	phase      float64
	started    bool
	mutex      sync.Mutex
}

// New opens the audio device and prepares a mono float32 stream at
// sampleRate. It blocks until the device is ready.
func New(sampleRate int) (*Beeper, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	b := &Beeper{ctx: ctx, sampleRate: sampleRate}
	b.player = ctx.NewPlayer(b)
	return b, nil
}

// Read is the sample source oto pulls from on its own goroutine: a square
// wave while the gate is open, silence otherwise.
func (b *Beeper) Read(p []byte) (n int, err error) {
	samples := len(p) / 4
	step := toneHz / float64(b.sampleRate)
	for i := 0; i < samples; i++ {
		var s float32
		if b.active.Load() {
			if b.phase < 0.5 {
				s = 0.25
			} else {
				s = -0.25
			}
			b.phase += step
			if b.phase >= 1 {
				b.phase -= 1
			}
		}
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s))
	}
	return samples * 4, nil
}

// SetActive opens or closes the gate. Safe to call every frame.
func (b *Beeper) SetActive(on bool) {
	b.active.Store(on)
}

func (b *Beeper) Start() {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if !b.started && b.player != nil {
		b.player.Play()
		b.started = true
	}
}

func (b *Beeper) Close() {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.player != nil {
		b.player.Close()
		b.player = nil
	}
	b.started = false
}
