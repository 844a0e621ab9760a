package main

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"
)

func init() {
	// SDL and OpenGL calls must stay on the main thread.
	runtime.LockOSThread()
}

type windowConfig struct {
	title  string
	width  int
	height int
	vsync  bool
}

// window is an SDL window with a current OpenGL 4.1 core context.
type window struct {
	log *zap.Logger
	sdl *sdl.Window
	ctx sdl.GLContext
}

func openWindow(cfg windowConfig, log *zap.Logger) (*window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// 4.1 core is the newest profile macOS offers.
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)

	w := &window{log: log}
	var err error
	w.sdl, err = sdl.CreateWindow(cfg.title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(cfg.width), int32(cfg.height),
		sdl.WINDOW_OPENGL|sdl.WINDOW_RESIZABLE|sdl.WINDOW_ALLOW_HIGHDPI)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.ctx, err = w.sdl.GLCreateContext()
	if err != nil {
		w.sdl.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	interval := 0
	if cfg.vsync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		log.Warn("failed to set swap interval", zap.Int("interval", interval), zap.Error(err))
	}

	log.Info("window created",
		zap.String("title", cfg.title),
		zap.Int("width", cfg.width),
		zap.Int("height", cfg.height),
		zap.Bool("vsync", cfg.vsync))
	return w, nil
}

func (w *window) close() {
	w.log.Info("closing window")
	if w.ctx != nil {
		sdl.GLDeleteContext(w.ctx)
	}
	if w.sdl != nil {
		w.sdl.Destroy()
	}
	sdl.Quit()
}

func (w *window) swap() {
	w.sdl.GLSwap()
}

// size returns the window size in the units of mouse events.
func (w *window) size() (int, int) {
	width, height := w.sdl.GetSize()
	return int(width), int(height)
}

// drawableSize returns the framebuffer size in pixels.
func (w *window) drawableSize() (int32, int32) {
	return w.sdl.GLGetDrawableSize()
}

func (w *window) setTitle(title string) {
	w.sdl.SetTitle(title)
}
