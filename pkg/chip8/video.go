package chip8

import (
	"image"
	"image/png"
	"os"
)

// Display pixel colors in RGBA order: lit pixels render white, unlit black.
var (
	pixelOn  = [4]byte{0xFF, 0xFF, 0xFF, 0xFF}
	pixelOff = [4]byte{0x00, 0x00, 0x00, 0xFF}
)

// GetFramebufferRGBA decodes the monochrome display into a 64×32 RGBA8888
// byte slice (length 64*32*4 = 8192), row-major, ready for a renderer to
// upload as-is.
func (m *Machine) GetFramebufferRGBA() []byte {
	pixels := make([]byte, ScreenWidth*ScreenHeight*4)
	for i, on := range m.Display {
		c := pixelOff
		if on {
			c = pixelOn
		}
		copy(pixels[i*4:], c[:])
	}
	return pixels
}

// GetFramebufferImage returns the current display as an *image.RGBA.
func (m *Machine) GetFramebufferImage() *image.RGBA {
	return &image.RGBA{
		Pix:    m.GetFramebufferRGBA(),
		Stride: ScreenWidth * 4,
		Rect:   image.Rect(0, 0, ScreenWidth, ScreenHeight),
	}
}

// SaveScreenshot encodes the current display as a PNG and writes it to filename.
func (m *Machine) SaveScreenshot(filename string) error {
	img := m.GetFramebufferImage()
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
