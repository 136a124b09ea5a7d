package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsFrameAverage(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < int(AVG_COUNT); i++ {
		m.Update(0.010)
	}
	_, avg := m.Frame()
	assert.InDelta(t, 10.0, avg, 1e-9)

	// A second of frames rolls the fps counter over.
	for i := 0; i < 100; i++ {
		m.Update(0.010)
	}
	fps, _ := m.Frame()
	assert.InDelta(t, 100, fps, 2)
}

func TestMetricsUploads(t *testing.T) {
	m := NewMetrics()
	m.CountBufferUpload()
	m.CountBufferUpload()
	m.CountTextureUpload()
	m.CountSubImageWrite()
	m.CountSubImageWrite()
	m.CountSubImageWrite()

	buffers, textures, writes := m.Uploads()
	assert.Equal(t, int64(2), buffers)
	assert.Equal(t, int64(1), textures)
	assert.Equal(t, int64(3), writes)
}
