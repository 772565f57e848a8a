package viz

import (
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"os"
)

const (
	charW = 8
	charH = 16
)

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.frames = make([]*image.Paletted, 0)
		m.status = "recording"
		return
	}
	if err := m.saveGIF(); err != nil {
		m.status = "gif: " + err.Error()
	} else if len(m.frames) > 0 {
		m.status = "saved " + m.gifPath
	}
	m.recording = false
	m.frames = nil
}

// captureFrame rasterizes the canvas, one block per braille dot.
func (m *Model) captureFrame() {
	m.frames = append(m.frames, rasterize(m.canvas))
}

func rasterize(c *Canvas) *image.Paletted {
	imgW, imgH := c.Width*charW, c.Height*charH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), palette.Plan9)
	bg := uint8(img.Palette.Index(color.Black))
	for i := range img.Pix {
		img.Pix[i] = bg
	}

	dotW, dotH := charW/2, charH/4
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			pattern := int(c.Grid[row][col] - blank)
			if pattern == 0 {
				continue
			}
			idx := uint8(img.Palette.Index(dotColor(c.Colors[row][col])))
			baseX, baseY := col*charW, row*charH
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+dx*dotW+px, baseY+dy*dotH+py, idx)
						}
					}
				}
			}
		}
	}
	return img
}

func (m *Model) saveGIF() error {
	if len(m.frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(m.gifPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}

// dotColor paints untinted dots white so they show on the black background.
func dotColor(c color.RGBA) color.RGBA {
	if c.A == 0 {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return c
}
