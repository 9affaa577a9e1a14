// Shader debug tool - renders a post-process shader to a PNG file for
// inspection without running the full sandbox.
//
// Usage: go run ./cmd/shaderdebug -shader renderer/shaders/threshold.fs -out debug.png
package main

import (
	"flag"
	"fmt"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func main() {
	shaderPath := flag.String("shader", "renderer/shaders/threshold.fs", "Path to fragment shader")
	vertPath := flag.String("vert", "", "Optional vertex shader path")
	outPath := flag.String("out", "debug.png", "Output PNG path")
	width := flag.Int("width", 512, "Render width")
	height := flag.Int("height", 512, "Render height")
	threshold := flag.Float64("threshold", 0.7, "Value for the threshold uniform, if present")
	intensity := flag.Float64("intensity", 1.0, "Value for the intensity uniform, if present")
	flag.Parse()

	// Initialize raylib with hidden window
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(int32(*width), int32(*height), "Shader Debug")
	defer rl.CloseWindow()

	shader := rl.LoadShader(*vertPath, *shaderPath)
	if shader.ID == 0 {
		fmt.Fprintf(os.Stderr, "Failed to load shader: %s\n", *shaderPath)
		os.Exit(1)
	}
	defer rl.UnloadShader(shader)

	// Set whichever uniforms the shader declares; missing ones come back
	// with location -1 and the set is a no-op.
	setFloat := func(name string, v float32) {
		loc := rl.GetShaderLocation(shader, name)
		rl.SetShaderValue(shader, loc, []float32{v}, rl.ShaderUniformFloat)
	}
	setFloat("threshold", float32(*threshold))
	setFloat("intensity", float32(*intensity))
	setFloat("time", 0)

	resolutionLoc := rl.GetShaderLocation(shader, "resolution")
	rl.SetShaderValue(shader, resolutionLoc, []float32{float32(*width), float32(*height)}, rl.ShaderUniformVec2)
	directionLoc := rl.GetShaderLocation(shader, "direction")
	rl.SetShaderValue(shader, directionLoc, []float32{1, 0}, rl.ShaderUniformVec2)

	target := rl.LoadRenderTexture(int32(*width), int32(*height))
	defer rl.UnloadRenderTexture(target)

	rl.BeginTextureMode(target)
	rl.ClearBackground(rl.Black)
	rl.BeginShaderMode(shader)
	rl.DrawRectangle(0, 0, int32(*width), int32(*height), rl.White)
	rl.EndShaderMode()
	rl.EndTextureMode()

	// Get image from texture and flip it (OpenGL convention)
	img := rl.LoadImageFromTexture(target.Texture)
	rl.ImageFlipVertical(img)

	success := rl.ExportImage(*img, *outPath)
	rl.UnloadImage(img)

	if success {
		fmt.Printf("Shader rendered to: %s (%dx%d)\n", *outPath, *width, *height)
	} else {
		fmt.Fprintf(os.Stderr, "Failed to export image\n")
		os.Exit(1)
	}
}
