// Package display implements the engine's Presenter on top of SDL3.
package display

import (
	"time"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/Zyko0/go-sdl3/ttf"
	"github.com/m-mizutani/goerr/v2"

	"github.com/MarkTee/Psych403-FinalProject/engine"
)

// Options describes the window and stimulus appearance. Geometry values come
// straight from engine.Config.
type Options struct {
	Width      int
	Height     int
	Fullscreen bool

	FontPath string
	FontSize int

	FramePadding int
	CircleRadius int

	Background engine.Color
	Text       engine.Color
	Fixation   engine.Color
	Circle     engine.Color
	Frame      engine.Color
}

// Window owns the SDL window, renderer and font for one session. It must be
// used from the main OS thread.
type Window struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	font     *ttf.Font
	opts     Options
}

// Open initializes SDL and creates the experiment window. Close releases
// everything, including the SDL subsystems.
func Open(opts Options) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, goerr.Wrap(err, "SDL init failed")
	}
	if err := ttf.Init(); err != nil {
		sdl.Quit()
		return nil, goerr.Wrap(err, "TTF init failed")
	}

	windowFlags := sdl.WINDOW_RESIZABLE
	if opts.Fullscreen {
		windowFlags |= sdl.WINDOW_FULLSCREEN
	}
	window, renderer, err := sdl.CreateWindowAndRenderer("Subitizing Experiment", opts.Width, opts.Height, windowFlags)
	if err != nil {
		ttf.Quit()
		sdl.Quit()
		return nil, goerr.Wrap(err, "failed to create window")
	}
	renderer.SetVSync(1)

	fontPath := opts.FontPath
	if fontPath == "" {
		fontPath = DefaultFontPath()
	}
	if fontPath == "" {
		window.Destroy()
		renderer.Destroy()
		ttf.Quit()
		sdl.Quit()
		return nil, goerr.New("no usable font found; pass one explicitly")
	}
	font, err := ttf.OpenFont(fontPath, float32(opts.FontSize))
	if err != nil {
		window.Destroy()
		renderer.Destroy()
		ttf.Quit()
		sdl.Quit()
		return nil, goerr.Wrap(err, "failed to load font", goerr.V("path", fontPath))
	}

	return &Window{window: window, renderer: renderer, font: font, opts: opts}, nil
}

func (w *Window) Close() {
	if w.font != nil {
		w.font.Close()
	}
	if w.renderer != nil {
		w.renderer.Destroy()
	}
	if w.window != nil {
		w.window.Destroy()
	}
	ttf.Quit()
	sdl.Quit()
}

// ShowMessage renders a centered text screen; hold of zero leaves it up.
func (w *Window) ShowMessage(text string, hold time.Duration) error {
	w.clear()
	w.drawFrame()
	if err := w.drawTextCentered(text); err != nil {
		return err
	}
	w.renderer.Present()
	if hold > 0 {
		_, err := w.pump(hold, false)
		return err
	}
	return nil
}

// WaitKey blocks until any key is pressed.
func (w *Window) WaitKey() error {
	for {
		var event sdl.Event
		if err := sdl.WaitEvent(&event); err != nil {
			return goerr.Wrap(err, "event wait failed")
		}
		switch event.Type {
		case sdl.EVENT_QUIT:
			return engine.ErrAborted
		case sdl.EVENT_KEY_DOWN:
			if event.KeyboardEvent().Key == sdl.K_ESCAPE {
				return engine.ErrAborted
			}
			return nil
		}
	}
}

// ShowFixation renders the fixation cross for the given duration.
func (w *Window) ShowFixation(hold time.Duration) error {
	w.clear()
	w.drawFrame()
	w.drawFixation()
	w.renderer.Present()
	_, err := w.pump(hold, false)
	return err
}

// ShowCircles renders the circles and returns after maxHold, or earlier if a
// key is pressed. The keypress is consumed; it does not carry into the
// response phase.
func (w *Window) ShowCircles(points []engine.Point, maxHold time.Duration) error {
	w.drain()
	w.clear()
	w.drawFrame()
	for _, p := range points {
		w.fillCircle(p.X, p.Y, w.opts.CircleRadius)
	}
	w.renderer.Present()
	_, err := w.pump(maxHold, true)
	return err
}

// PromptDigit clears the stimulus, shows the prompt and blocks until a digit
// key arrives. Non-digit keys are ignored. Elapsed time is measured from the
// moment the prompt is on screen.
func (w *Window) PromptDigit(text string) (int, time.Duration, error) {
	w.clear()
	w.drawFrame()
	if err := w.drawTextCentered(text); err != nil {
		return 0, 0, err
	}
	w.renderer.Present()
	w.drain()

	start := sdl.Ticks()
	for {
		var event sdl.Event
		if err := sdl.WaitEvent(&event); err != nil {
			return 0, 0, goerr.Wrap(err, "event wait failed")
		}
		switch event.Type {
		case sdl.EVENT_QUIT:
			return 0, 0, engine.ErrAborted
		case sdl.EVENT_KEY_DOWN:
			key := event.KeyboardEvent().Key
			if key == sdl.K_ESCAPE {
				return 0, 0, engine.ErrAborted
			}
			if digit, ok := digitFor(key); ok {
				elapsed := time.Duration(sdl.Ticks()-start) * time.Millisecond
				return digit, elapsed, nil
			}
		}
	}
}

// pump keeps the current frame on screen for hold, watching the event queue.
// With interruptOnKey it returns early (true) on the first keypress.
func (w *Window) pump(hold time.Duration, interruptOnKey bool) (bool, error) {
	deadline := sdl.Ticks() + uint64(hold.Milliseconds())
	for sdl.Ticks() < deadline {
		var event sdl.Event
		for sdl.PollEvent(&event) {
			switch event.Type {
			case sdl.EVENT_QUIT:
				return false, engine.ErrAborted
			case sdl.EVENT_KEY_DOWN:
				if event.KeyboardEvent().Key == sdl.K_ESCAPE {
					return false, engine.ErrAborted
				}
				if interruptOnKey {
					return true, nil
				}
			}
		}
		sdl.Delay(1)
	}
	return false, nil
}

// drain empties the event queue so stale keypresses are not read later.
// Quit requests must not be dropped here, so they are left pending via a
// re-check in the next wait; ESC handling happens in the waiting calls.
func (w *Window) drain() {
	var event sdl.Event
	for sdl.PollEvent(&event) {
		if event.Type == sdl.EVENT_QUIT {
			sdl.PushEvent(&event)
			return
		}
	}
}

func digitFor(key sdl.Keycode) (int, bool) {
	switch key {
	case sdl.K_0, sdl.K_KP_0:
		return 0, true
	case sdl.K_1, sdl.K_KP_1:
		return 1, true
	case sdl.K_2, sdl.K_KP_2:
		return 2, true
	case sdl.K_3, sdl.K_KP_3:
		return 3, true
	case sdl.K_4, sdl.K_KP_4:
		return 4, true
	case sdl.K_5, sdl.K_KP_5:
		return 5, true
	case sdl.K_6, sdl.K_KP_6:
		return 6, true
	case sdl.K_7, sdl.K_KP_7:
		return 7, true
	case sdl.K_8, sdl.K_KP_8:
		return 8, true
	case sdl.K_9, sdl.K_KP_9:
		return 9, true
	}
	return 0, false
}
