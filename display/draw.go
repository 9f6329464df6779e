package display

import (
	"math"
	"strings"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/m-mizutani/goerr/v2"

	"github.com/MarkTee/Psych403-FinalProject/engine"
)

const (
	crossSize   = 20
	lineSpacing = 6
)

func sdlColor(c engine.Color) sdl.Color {
	return sdl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

func (w *Window) setColor(c engine.Color) {
	w.renderer.SetDrawColor(c.R, c.G, c.B, c.A)
}

func (w *Window) clear() {
	w.setColor(w.opts.Background)
	w.renderer.Clear()
}

// drawFrame draws the bordered rectangle the stimuli live inside.
func (w *Window) drawFrame() {
	if w.opts.FramePadding <= 0 {
		return
	}
	w.setColor(w.opts.Frame)
	pad := float32(w.opts.FramePadding) / 2
	rect := sdl.FRect{
		X: pad,
		Y: pad,
		W: float32(w.opts.Width) - 2*pad,
		H: float32(w.opts.Height) - 2*pad,
	}
	w.renderer.RenderRect(&rect)
}

func (w *Window) drawFixation() {
	w.setColor(w.opts.Fixation)
	mx, my := float32(w.opts.Width)/2, float32(w.opts.Height)/2
	w.renderer.RenderLine(mx-crossSize, my, mx+crossSize, my)
	w.renderer.RenderLine(mx, my-crossSize, mx, my+crossSize)
}

// fillCircle rasterizes a filled circle as horizontal spans; SDL's renderer
// has no circle primitive.
func (w *Window) fillCircle(cx, cy, r int) {
	w.setColor(w.opts.Circle)
	for dy := -r; dy <= r; dy++ {
		dx := int(math.Sqrt(float64(r*r - dy*dy)))
		y := float32(cy + dy)
		w.renderer.RenderLine(float32(cx-dx), y, float32(cx+dx), y)
	}
}

// drawTextCentered renders a multi-line text block centered in the window.
func (w *Window) drawTextCentered(text string) error {
	lines := strings.Split(text, "\n")

	type rendered struct {
		tex  *sdl.Texture
		w, h float32
	}
	var (
		blocks []rendered
		totalH float32
	)
	defer func() {
		for _, b := range blocks {
			if b.tex != nil {
				b.tex.Destroy()
			}
		}
	}()

	for _, line := range lines {
		if line == "" {
			blocks = append(blocks, rendered{h: float32(w.opts.FontSize)})
			totalH += float32(w.opts.FontSize) + lineSpacing
			continue
		}
		surf, err := w.font.RenderTextBlended(line, sdlColor(w.opts.Text))
		if err != nil {
			return goerr.Wrap(err, "failed to render text", goerr.V("line", line))
		}
		tex, err := w.renderer.CreateTextureFromSurface(surf)
		tw, th := float32(surf.W), float32(surf.H)
		surf.Destroy()
		if err != nil {
			return goerr.Wrap(err, "failed to create text texture")
		}
		blocks = append(blocks, rendered{tex: tex, w: tw, h: th})
		totalH += th + lineSpacing
	}

	y := (float32(w.opts.Height) - totalH) / 2
	for _, b := range blocks {
		if b.tex != nil {
			dst := sdl.FRect{
				X: (float32(w.opts.Width) - b.w) / 2,
				Y: y,
				W: b.w,
				H: b.h,
			}
			w.renderer.RenderTexture(b.tex, nil, &dst)
		}
		y += b.h + lineSpacing
	}
	return nil
}
