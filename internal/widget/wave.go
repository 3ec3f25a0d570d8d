package widget

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
)

// sampleStep is the horizontal distance between sampled points, in pixels.
const sampleStep = 5

type RGBA struct {
	R, G, B uint8
	A       float64
}

func (c RGBA) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %g)", c.R, c.G, c.B, c.A)
}

// MarshalText encodes the color as a CSS rgba() value.
func (c RGBA) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// WavePalette is the fill color of each layer, back to front.
var WavePalette = []RGBA{
	{R: 252, G: 191, B: 40, A: 0.7},
	{R: 239, G: 173, B: 173, A: 0.7},
	{R: 200, G: 230, B: 160, A: 0.7},
	{R: 122, G: 149, B: 168, A: 0.7},
	{R: 245, G: 166, B: 35, A: 0.7},
	{R: 245, G: 201, B: 201, A: 0.7},
}

// Layer is one sine wave. Its parameters are fixed when the scene is created.
type Layer struct {
	Color     RGBA    `json:"color"`
	Amplitude float64 `json:"amplitude"`
	Frequency float64 `json:"frequency"`
	Speed     float64 `json:"speed"`
	Offset    float64 `json:"offset"`
	BaseY     float64 `json:"baseY"`
}

// Y is the wave height at x for the given time step in a canvas of height h.
func (l Layer) Y(x float64, tick int, h int) float64 {
	return math.Sin(x*l.Frequency+float64(tick)*l.Speed+l.Offset)*l.Amplitude + float64(h)*l.BaseY
}

type Point struct {
	X, Y float64
}

// Polygon is one filled layer of a frame, closed along the bottom edge.
type Polygon struct {
	Color  RGBA
	Points []Point
}

type Frame struct {
	Width, Height int
	Tick          int
	Layers        []Polygon
}

// SVG renders the frame as a standalone SVG document.
func (f Frame) SVG() string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" preserveAspectRatio="none" width="100%%" height="100%%">`, f.Width, f.Height)
	for _, layer := range f.Layers {
		b.WriteString(`<path d="`)
		for i, p := range layer.Points {
			if i == 0 {
				b.WriteString("M")
			} else {
				b.WriteString(" L")
			}
			fmt.Fprintf(&b, "%.1f %.1f", p.X, p.Y)
		}
		fmt.Fprintf(&b, ` Z" fill="%s"/>`, layer.Color)
	}
	b.WriteString(`</svg>`)
	return b.String()
}

// Scene is everything a client needs to animate the wave itself: the layer
// parameters, the size they were requested for and a frame rate cap.
type Scene struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	FPS    int     `json:"fps"`
	Layers []Layer `json:"layers"`
}

// Wave is a layered sine scene. Layer parameters are randomized once in
// NewWave; only the tick and the canvas size change afterwards.
type Wave struct {
	mu     sync.Mutex
	layers []Layer
	width  int
	height int
	tick   int
}

// NewWave randomizes one layer per palette color using rng.
func NewWave(rng *rand.Rand, width, height int) *Wave {
	layers := make([]Layer, len(WavePalette))
	for i, color := range WavePalette {
		layers[i] = Layer{
			Color:     color,
			Amplitude: 40 + rng.Float64()*60,
			Frequency: 0.003 + rng.Float64()*0.002,
			Speed:     0.01 + rng.Float64()*0.015,
			Offset:    rng.Float64() * math.Pi * 2,
			BaseY:     0.3 + float64(i)*0.12,
		}
	}

	w := &Wave{layers: layers}
	w.Resize(width, height)
	return w
}

// Layers returns a copy of the layer parameters.
func (w *Wave) Layers() []Layer {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Layer(nil), w.layers...)
}

// Resize sets the canvas size in pixels. Non-positive values become 1.
func (w *Wave) Resize(width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.width = max(width, 1)
	w.height = max(height, 1)
}

func (w *Wave) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

// Scene describes the wave at its current size. Amplitudes are in pixels
// and BaseY is a fraction of the height, so a client that resizes its
// canvas keeps the same geometry without asking again.
func (w *Wave) Scene(fps int) Scene {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Scene{
		Width:  w.width,
		Height: w.height,
		FPS:    fps,
		Layers: append([]Layer(nil), w.layers...),
	}
}

// Frame samples every layer at the current tick and then advances it.
func (w *Wave) Frame() Frame {
	w.mu.Lock()
	defer w.mu.Unlock()

	f := Frame{Width: w.width, Height: w.height, Tick: w.tick}
	for _, l := range w.layers {
		points := []Point{{X: 0, Y: float64(w.height)}}
		for x := 0; x <= w.width; x += sampleStep {
			points = append(points, Point{X: float64(x), Y: l.Y(float64(x), w.tick, w.height)})
		}
		points = append(points, Point{X: float64(w.width), Y: float64(w.height)})
		f.Layers = append(f.Layers, Polygon{Color: l.Color, Points: points})
	}

	w.tick++
	return f
}
