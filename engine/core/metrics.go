package core

import (
	"sync"
	"sync/atomic"
)

const AVG_COUNT uint8 = 30

// Metrics keeps a rolling frame time average and counts the GPU uploads the
// scene nodes perform, which is what the frame driver reports per second.
type Metrics struct {
	mu                 sync.Mutex
	frameAVGCounter    uint8
	msTimes            [AVG_COUNT]float64
	msAvg              float64
	frames             int32
	accumulatedFrameMS float64
	fps                float64

	bufferUploads  atomic.Int64
	textureUploads atomic.Int64
	subImageWrites atomic.Int64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) Update(frameElapsedTime float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Calculate frame ms average
	frameMS := frameElapsedTime * 1000.0
	m.msTimes[m.frameAVGCounter] = frameMS
	if m.frameAVGCounter == AVG_COUNT-1 {
		m.msAvg = 0
		for i := uint8(0); i < AVG_COUNT; i++ {
			m.msAvg += m.msTimes[i]
		}
		m.msAvg /= float64(AVG_COUNT)
	}
	m.frameAVGCounter++
	m.frameAVGCounter %= AVG_COUNT

	// Calculate Frames per second.
	m.accumulatedFrameMS += frameMS
	if m.accumulatedFrameMS > 1000 {
		m.fps = float64(m.frames)
		m.accumulatedFrameMS -= 1000
		m.frames = 0
	}

	// Count all Frames.
	m.frames++
}

// Frame returns the frames per second and the average frame time in ms.
func (m *Metrics) Frame() (float64, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fps, m.msAvg
}

func (m *Metrics) CountBufferUpload()  { m.bufferUploads.Add(1) }
func (m *Metrics) CountTextureUpload() { m.textureUploads.Add(1) }
func (m *Metrics) CountSubImageWrite() { m.subImageWrites.Add(1) }

// Uploads returns the buffer, full texture and sub-image upload counts.
func (m *Metrics) Uploads() (int64, int64, int64) {
	return m.bufferUploads.Load(), m.textureUploads.Load(), m.subImageWrites.Load()
}
