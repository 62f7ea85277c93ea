package audio

import (
	"errors"
	"sync"
	"time"
)

// Output interface for audio output implementations
type Output interface {
	Open(sampleRate, channels, bufferSize int) error
	Close() error
	Write(samples []int16) error
	IsPlaying() bool
}

// Source produces samples for a Player. Compute fills buffer and returns
// false once the source is exhausted.
type Source interface {
	Compute(buffer []int16, nbSamples int) bool
}

// ClipSource replays an already rendered clip
type ClipSource struct {
	samples []int16
	pos     int
}

// NewClipSource wraps rendered samples
func NewClipSource(samples []int16) *ClipSource {
	return &ClipSource{samples: samples}
}

// Compute copies the next samples and pads with silence past the end
func (c *ClipSource) Compute(buffer []int16, nbSamples int) bool {
	if nbSamples > len(buffer) {
		nbSamples = len(buffer)
	}
	n := copy(buffer[:nbSamples], c.samples[c.pos:])
	for i := n; i < nbSamples; i++ {
		buffer[i] = 0
	}
	c.pos += n
	return c.pos < len(c.samples)
}

// Rewind restarts the clip
func (c *ClipSource) Rewind() {
	c.pos = 0
}

// Pos returns the play position in samples
func (c *ClipSource) Pos() int {
	return c.pos
}

// Len returns the clip length in samples
func (c *ClipSource) Len() int {
	return len(c.samples)
}

// Player pumps a Source into an Output. A Player is started once.
type Player struct {
	source     Source
	output     Output
	sampleRate int
	bufferSize int
	volume     float64
	started    bool
	playing    bool
	paused     bool
	mu         sync.Mutex
	done       chan bool
	finishOnce sync.Once
}

// NewPlayer creates a new audio player
func NewPlayer(source Source, output Output) *Player {
	return &Player{
		source: source,
		output: output,
		volume: 1.0,
		done:   make(chan bool, 1),
	}
}

// Start starts audio playback
func (p *Player) Start(sampleRate, bufferSize int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return errors.New("already started")
	}

	p.sampleRate = sampleRate
	p.bufferSize = bufferSize

	if err := p.output.Open(sampleRate, 1, bufferSize); err != nil {
		return err
	}

	p.started = true
	p.playing = true
	go p.audioLoop()

	return nil
}

// Stop stops playback and closes the output
func (p *Player) Stop() {
	p.mu.Lock()
	started := p.started
	p.playing = false
	p.mu.Unlock()

	if started {
		p.finish()
	}
}

// Wait blocks until the source is exhausted or Stop is called, then
// closes the output
func (p *Player) Wait() {
	p.mu.Lock()
	started := p.started
	p.mu.Unlock()

	if started {
		p.finish()
	}
}

func (p *Player) finish() {
	p.finishOnce.Do(func() {
		<-p.done
		p.output.Close()
	})
}

// Pause pauses playback
func (p *Player) Pause() {
	p.mu.Lock()
	p.paused = true
	p.mu.Unlock()
}

// Resume resumes playback
func (p *Player) Resume() {
	p.mu.Lock()
	p.paused = false
	p.mu.Unlock()
}

// IsPaused returns true if paused
func (p *Player) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// IsPlaying returns true until the source ends or Stop is called
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// SetVolume sets the gain applied to every sample (saturating)
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	p.volume = v
	p.mu.Unlock()
}

// ApplyGain scales samples in place with saturation
func ApplyGain(buffer []int16, gain float64) {
	if gain == 1.0 {
		return
	}
	for i := range buffer {
		sample := float64(buffer[i]) * gain
		if sample > 32767 {
			buffer[i] = 32767
		} else if sample < -32768 {
			buffer[i] = -32768
		} else {
			buffer[i] = int16(sample)
		}
	}
}

// audioLoop is the main audio processing loop
func (p *Player) audioLoop() {
	defer func() {
		p.done <- true
	}()

	buffer := make([]int16, p.bufferSize)

	for {
		p.mu.Lock()
		if !p.playing {
			p.mu.Unlock()
			break
		}
		paused := p.paused
		volume := p.volume
		p.mu.Unlock()

		more := true
		if paused {
			for i := range buffer {
				buffer[i] = 0
			}
		} else {
			more = p.source.Compute(buffer, len(buffer))
			ApplyGain(buffer, volume)
		}

		if err := p.output.Write(buffer); err != nil {
			time.Sleep(10 * time.Millisecond)
		}

		if !more {
			p.mu.Lock()
			p.playing = false
			p.mu.Unlock()
			break
		}
	}
}

// NullOutput discards all audio
type NullOutput struct{}

func (n *NullOutput) Open(sampleRate, channels, bufferSize int) error {
	return nil
}

func (n *NullOutput) Close() error {
	return nil
}

func (n *NullOutput) Write(samples []int16) error {
	return nil
}

func (n *NullOutput) IsPlaying() bool {
	return true
}

// BufferOutput is a simple buffer-based output for testing
type BufferOutput struct {
	buffer     []int16
	sampleRate int
	channels   int
	mu         sync.Mutex
}

// NewBufferOutput creates a new buffer output
func NewBufferOutput() *BufferOutput {
	return &BufferOutput{}
}

// Open opens the buffer output
func (b *BufferOutput) Open(sampleRate, channels, bufferSize int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sampleRate = sampleRate
	b.channels = channels
	b.buffer = make([]int16, 0, sampleRate*channels*3) // one drum at the default length
	return nil
}

// Close keeps the collected samples available through GetBuffer
func (b *BufferOutput) Close() error {
	return nil
}

// Write writes samples to the buffer
func (b *BufferOutput) Write(samples []int16) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.buffer == nil {
		return errors.New("buffer not initialized")
	}

	b.buffer = append(b.buffer, samples...)
	return nil
}

// IsPlaying always returns true for buffer output
func (b *BufferOutput) IsPlaying() bool {
	return true
}

// GetBuffer returns the accumulated audio buffer
func (b *BufferOutput) GetBuffer() []int16 {
	b.mu.Lock()
	defer b.mu.Unlock()

	result := make([]int16, len(b.buffer))
	copy(result, b.buffer)
	return result
}

// Clear clears the buffer
func (b *BufferOutput) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buffer = b.buffer[:0]
}
