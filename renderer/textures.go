package renderer

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// loadedImage is the result of an async decode, uploaded on the main
// thread when Process runs.
type loadedImage struct {
	systemID int
	path     string
	img      *rl.Image
}

// TextureCache owns per-system particle textures plus the shared white
// default. Decodes run off the main thread; GPU uploads happen in
// Process on the main thread. Textures are keyed by system id, so a
// duplicated system loads its own copy of the source image.
type TextureCache struct {
	defaultTex rl.Texture2D
	bySystem   map[int]rl.Texture2D
	pending    chan loadedImage
	inFlight   map[int]string
}

// NewTextureCache creates the cache and the 1x1 white default texture.
func NewTextureCache() *TextureCache {
	img := rl.GenImageColor(1, 1, rl.White)
	defer rl.UnloadImage(img)
	return &TextureCache{
		defaultTex: rl.LoadTextureFromImage(img),
		bySystem:   make(map[int]rl.Texture2D),
		pending:    make(chan loadedImage, 8),
		inFlight:   make(map[int]string),
	}
}

// Default returns the shared white texture. Never released per system.
func (tc *TextureCache) Default() rl.Texture2D {
	return tc.defaultTex
}

// For returns the texture for a system, falling back to the default
// while nothing is loaded.
func (tc *TextureCache) For(systemID int) rl.Texture2D {
	if tex, ok := tc.bySystem[systemID]; ok {
		return tex
	}
	return tc.defaultTex
}

// Request starts an async load of path for the given system. The decode
// happens on a goroutine; the texture shows up after a later Process
// call. Re-requesting the path already in flight or loaded is a no-op.
func (tc *TextureCache) Request(systemID int, path string) {
	if path == "" {
		tc.Release(systemID)
		return
	}
	if tc.inFlight[systemID] == path {
		return
	}
	tc.inFlight[systemID] = path

	go func() {
		img := rl.LoadImage(path)
		tc.pending <- loadedImage{systemID: systemID, path: path, img: img}
	}()
}

// Process uploads any finished decodes. Must run on the main thread.
func (tc *TextureCache) Process() {
	for {
		select {
		case done := <-tc.pending:
			if tc.inFlight[done.systemID] != done.path {
				// A newer request superseded this load.
				rl.UnloadImage(done.img)
				continue
			}
			if done.img == nil || done.img.Width == 0 {
				slog.Warn("texture load failed, keeping default", "path", done.path, "system", done.systemID)
				delete(tc.inFlight, done.systemID)
				continue
			}
			tc.release(done.systemID)
			tc.bySystem[done.systemID] = rl.LoadTextureFromImage(done.img)
			rl.UnloadImage(done.img)
		default:
			return
		}
	}
}

// Release drops a system's texture and reverts it to the default.
func (tc *TextureCache) Release(systemID int) {
	tc.release(systemID)
	delete(tc.inFlight, systemID)
}

func (tc *TextureCache) release(systemID int) {
	if tex, ok := tc.bySystem[systemID]; ok {
		rl.UnloadTexture(tex)
		delete(tc.bySystem, systemID)
	}
}

// Prune releases textures for systems no longer in the scene, such as
// after a scene load replaced every system.
func (tc *TextureCache) Prune(live map[int]bool) {
	for id := range tc.bySystem {
		if !live[id] {
			tc.Release(id)
		}
	}
	for id := range tc.inFlight {
		if !live[id] {
			delete(tc.inFlight, id)
		}
	}
}

// Unload releases every texture including the default.
func (tc *TextureCache) Unload() {
	for id := range tc.bySystem {
		tc.release(id)
	}
	rl.UnloadTexture(tc.defaultTex)
}
