package testbed

import (
	"errors"
	"io/fs"
	"math"

	"github.com/j3d/aviatrix3d-sub002/engine"
	"github.com/j3d/aviatrix3d-sub002/engine/core"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/gl"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/metadata"
	"github.com/j3d/aviatrix3d-sub002/engine/scene/geometry"
	"github.com/j3d/aviatrix3d-sub002/engine/scene/state"
	"github.com/j3d/aviatrix3d-sub002/engine/scene/texture"
)

const (
	// checkerName is loaded from the asset directory when present.
	checkerName = "textures/checker.png"
	checkerSize = 64
	bandHeight  = 4
	// degreesPerSecond is how fast the quad spins.
	degreesPerSecond = 30
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	texture *texture.Texture2D
	pixels  *texture.ImageSource
	quad    *geometry.IndexedQuadArray
	blend   *state.BlendAttributes

	angle   float64
	elapsed float64
	band    int
}

// NewTestGame builds the demo: every window draws the same textured quad,
// and a coloured band scrolls down its texture through sub-image updates.
func NewTestGame(cfg *core.Config) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: &engine.ApplicationConfig{
				StartPosX: 100,
				StartPosY: 100,
				Config:    cfg,
			},
			State: &gameState{},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown
	return tg
}

func (g *TestGame) Initialize(e *engine.Engine) error {
	core.LogInfo("initializing testbed...")
	st := g.State.(*gameState)

	if err := g.loadTexture(e, st); err != nil {
		return err
	}
	if err := st.texture.SetMinFilter(metadata.MinFilterBaseLevelLinear); err != nil {
		return err
	}
	if err := st.texture.SetMagFilter(metadata.MagFilterBaseLevelLinear); err != nil {
		return err
	}

	st.quad = geometry.NewIndexedQuadArray()
	if err := st.quad.SetVertices(3, []float32{
		-1, -1, 0,
		1, -1, 0,
		1, 1, 0,
		-1, 1, 0,
	}, 4); err != nil {
		return err
	}
	if err := st.quad.SetTextureCoordinates(
		[]metadata.TextureCoordinateType{metadata.TextureCoordinate2d},
		[][]float32{{0, 0, 1, 0, 1, 1, 0, 1}}, 1); err != nil {
		return err
	}
	if err := st.quad.SetSingleColor(false, []float32{1, 1, 1}); err != nil {
		return err
	}
	if err := st.quad.SetIndices([]int32{0, 1, 2, 3}, 4); err != nil {
		return err
	}
	st.quad.SetPickable(true)

	st.blend = state.NewBlendAttributes()
	if err := st.blend.SetSourceMode(gl.SRC_ALPHA); err != nil {
		return err
	}
	if err := st.blend.SetDestinationMode(gl.ONE_MINUS_SRC_ALPHA); err != nil {
		return err
	}

	for i, v := range e.Views() {
		shade := 0.1 + 0.15*float32(i)
		v.SetClearColor(shade, shade, 0.2, 1)
		for _, n := range []engine.Node{st.blend, st.texture, st.quad} {
			if err := e.Attach(v, n); err != nil {
				return err
			}
		}
	}
	return nil
}

// loadTexture prefers the checker image from the asset directory and
// falls back to generating one.
func (g *TestGame) loadTexture(e *engine.Engine, st *gameState) error {
	tex, err := e.Assets().LoadTexture2D(checkerName, metadata.MipModeBaseLevel)
	switch {
	case err == nil:
		src, ok := tex.Source().(*texture.ImageSource)
		if ok && src.Format() == metadata.TextureFormatRGBA {
			st.texture, st.pixels = tex, src
			return nil
		}
		core.LogWarn("%s is not RGBA, generating a checker instead", checkerName)
	case errors.Is(err, fs.ErrNotExist):
		core.LogDebug("no %s, generating a checker", checkerName)
	default:
		return err
	}

	pixels := make([]byte, checkerSize*checkerSize*4)
	for y := 0; y < checkerSize; y++ {
		for x := 0; x < checkerSize; x++ {
			c := byte(64)
			if (x/8+y/8)%2 == 0 {
				c = 224
			}
			p := pixels[(y*checkerSize+x)*4:]
			p[0], p[1], p[2], p[3] = c, c, c, 255
		}
	}
	st.pixels, err = texture.NewImageSource(checkerSize, checkerSize, metadata.TextureFormatRGBA, pixels)
	if err != nil {
		return err
	}
	st.texture, err = texture.NewTexture2DFromSource(metadata.MipModeBaseLevel, metadata.TextureFormatRGBA, st.pixels)
	return err
}

// Update spins the quad and paints the next band of the texture. Both
// happen here because this is the only time live nodes may change.
func (g *TestGame) Update(e *engine.Engine, deltaTime float64) error {
	st := g.State.(*gameState)
	st.angle = math.Mod(st.angle+degreesPerSecond*deltaTime, 360)
	st.elapsed += deltaTime

	w := st.pixels.Width()
	rows := min(bandHeight, st.pixels.Height())
	band := make([]byte, w*rows*4)
	hue := st.elapsed * 0.5
	for i := 0; i < len(band); i += 4 {
		band[i] = byte(127 + 127*math.Sin(hue))
		band[i+1] = byte(127 + 127*math.Sin(hue+2))
		band[i+2] = byte(127 + 127*math.Sin(hue+4))
		band[i+3] = 200
	}
	y := st.band * rows
	if y+rows > st.pixels.Height() {
		st.band, y = 0, 0
	}
	st.band++
	return st.pixels.UpdateSubImage(0, y, w, rows, 0, band)
}

// Render sets up the camera for a view. Odd views spin the other way, so
// it is plain the windows render independently.
func (g *TestGame) Render(v *engine.View, deltaTime float64) error {
	st := g.State.(*gameState)
	f := v.Context().GL
	w, h := v.Surface().FramebufferSize()
	aspect := 1.0
	if h > 0 {
		aspect = float64(w) / float64(h)
	}

	f.MatrixMode(gl.PROJECTION)
	f.LoadIdentity()
	f.Ortho(-1.5*aspect, 1.5*aspect, -1.5, 1.5, -10, 10)
	f.MatrixMode(gl.MODELVIEW)
	f.LoadIdentity()
	angle := st.angle
	if v.Context().ID%2 == 1 {
		angle = -angle
	}
	f.Rotatef(float32(angle), 0, 0, 1)
	return nil
}

func (g *TestGame) OnResize(v *engine.View, width int, height int) error {
	core.LogDebug("view %d resized to %dx%d", v.Context().ID, width, height)
	return nil
}

func (g *TestGame) Shutdown() error {
	core.LogInfo("shutting down testbed...")
	return nil
}
