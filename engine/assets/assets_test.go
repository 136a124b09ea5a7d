package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j3d/aviatrix3d-sub002/engine/assets/loaders"
	"github.com/j3d/aviatrix3d-sub002/engine/core"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/metadata"
	"github.com/j3d/aviatrix3d-sub002/engine/scene/texture"
	"github.com/j3d/aviatrix3d-sub002/engine/systems"
)

// countingLoader wraps the real loader to count decodes.
type countingLoader struct {
	loaders.TextureLoader
	decodes atomic.Int32
}

func (c *countingLoader) Decode(path string, params loaders.ImageParams) (*loaders.Image, error) {
	c.decodes.Add(1)
	return c.TextureLoader.Decode(path, params)
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.SetNRGBA(0, 0, color.NRGBA{A: 10})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	// Write beside the target and rename so a watcher never sees half a file.
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	require.NoError(t, os.WriteFile(tmp, buf.Bytes(), 0o644))
	require.NoError(t, os.Rename(tmp, path))
}

func newTestManager(t *testing.T, watch bool) (*Manager, *countingLoader, string) {
	t.Helper()
	dir := t.TempDir()
	jobs, err := systems.NewJobSystem(2, 4)
	require.NoError(t, err)
	t.Cleanup(func() { jobs.Shutdown() })

	loader := &countingLoader{}
	cfg := core.DefaultConfig().Assets
	cfg.Dir = dir
	cfg.Watch = watch
	m, err := newManager(cfg, jobs, loader)
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m, loader, dir
}

func TestLoadImageCachesByPath(t *testing.T) {
	m, loader, dir := newTestManager(t, false)
	writePNG(t, filepath.Join(dir, "brick.png"), 4, 2)

	a, err := m.LoadImage("brick.png", loaders.ImageParams{})
	require.NoError(t, err)
	assert.Equal(t, 4, a.Width())
	assert.Equal(t, 2, a.Height())
	assert.Equal(t, metadata.TextureFormatRGBA, a.Format())

	b, err := m.LoadImage(filepath.Join(dir, "brick.png"), loaders.ImageParams{})
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, int32(1), loader.decodes.Load())

	// Different layout, different source.
	c, err := m.LoadImage("brick.png", loaders.ImageParams{Mipmaps: true})
	require.NoError(t, err)
	assert.NotSame(t, a, c)
	assert.Equal(t, 3, c.Levels())
}

func TestLoadImageErrors(t *testing.T) {
	m, _, _ := newTestManager(t, false)
	_, err := m.LoadImage("missing.png", loaders.ImageParams{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadTexture2D(t *testing.T) {
	m, _, dir := newTestManager(t, false)
	writePNG(t, filepath.Join(dir, "t.png"), 8, 8)

	tex, err := m.LoadTexture2D("t.png", metadata.MipModeMipmap)
	require.NoError(t, err)
	assert.Equal(t, 8, tex.Width())
	assert.True(t, tex.HasTransparency())
	src, ok := tex.Source().(*texture.ImageSource)
	require.True(t, ok)
	assert.Equal(t, 4, src.Levels())
}

func TestLoadCubeSourcesInParallel(t *testing.T) {
	m, loader, dir := newTestManager(t, false)
	var faces [6]string
	for i := range faces {
		faces[i] = filepath.Join("sky", string(rune('a'+i))+".png")
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sky"), 0o755))
	for _, f := range faces {
		writePNG(t, filepath.Join(dir, f), 4, 4)
	}

	cube, err := m.LoadCubeMap(faces, metadata.MipModeBaseLevel)
	require.NoError(t, err)
	assert.Len(t, cube.Sources(), 6)
	assert.Equal(t, int32(6), loader.decodes.Load())

	// One bad face fails the whole load.
	faces[3] = "sky/nope.png"
	_, err = m.LoadCubeSources(faces, loaders.ImageParams{})
	assert.Error(t, err)

	// A non-square face is rejected by the cube map.
	writePNG(t, filepath.Join(dir, "sky", "wide.png"), 8, 4)
	faces[3] = "sky/wide.png"
	_, err = m.LoadCubeMap(faces, metadata.MipModeBaseLevel)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestReloadWaitsForApply(t *testing.T) {
	m, _, dir := newTestManager(t, false)
	path := filepath.Join(dir, "live.png")
	writePNG(t, path, 4, 4)
	tex, err := m.LoadTexture2D("live.png", metadata.MipModeBaseLevel)
	require.NoError(t, err)

	writePNG(t, path, 16, 8)
	n, err := m.Reload(path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Eventually(t, func() bool { return m.PendingReloads() == 1 }, 5*time.Second, 10*time.Millisecond)

	// Nothing changes until the update phase applies it.
	assert.Equal(t, 4, tex.Width())
	assert.Equal(t, 1, m.ApplyReloads())
	assert.Equal(t, 16, tex.Width())
	assert.Equal(t, 8, tex.Height())
	assert.Zero(t, m.PendingReloads())

	n, err = m.Reload(filepath.Join(dir, "unknown.png"))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestWatcherSchedulesReload(t *testing.T) {
	m, _, dir := newTestManager(t, true)
	path := filepath.Join(dir, "watched.png")
	writePNG(t, path, 2, 2)
	src, err := m.LoadImage("watched.png", loaders.ImageParams{})
	require.NoError(t, err)

	writePNG(t, path, 4, 4)
	require.Eventually(t, func() bool {
		m.ApplyReloads()
		return src.Width() == 4
	}, 5*time.Second, 20*time.Millisecond)
}

func TestCloseTwice(t *testing.T) {
	m, _, _ := newTestManager(t, true)
	require.NoError(t, m.Close())
	assert.ErrorIs(t, m.Close(), ErrManagerClosed)
}
