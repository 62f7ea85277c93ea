package audio

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// ErrRateConflict is returned when the device already runs at another rate
var ErrRateConflict = errors.New("audio device already running at another rate")

// drainMargin is added to the queued duration when waiting on Close
const drainMargin = 250 * time.Millisecond

var (
	// oto allows a single context per process
	globalOtoMutex sync.Mutex
	globalContext  *oto.Context
	contextRate    int
	globalPlayers  int
)

// otoContext returns the process context, creating it on first use. The
// rate of the first caller wins.
func otoContext(sampleRate, channels, bufferSize int) (*oto.Context, error) {
	globalOtoMutex.Lock()
	defer globalOtoMutex.Unlock()

	if globalContext != nil {
		if contextRate != sampleRate {
			return nil, fmt.Errorf("%w: %d Hz, want %d Hz", ErrRateConflict, contextRate, sampleRate)
		}
		globalPlayers++
		return globalContext, nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   time.Duration(bufferSize) * time.Second / time.Duration(sampleRate),
	}

	context, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-ready

	globalContext = context
	contextRate = sampleRate
	globalPlayers++
	return context, nil
}

// DeviceRate returns the rate of the running device context, if any
func DeviceRate() (int, bool) {
	globalOtoMutex.Lock()
	defer globalOtoMutex.Unlock()
	return contextRate, globalContext != nil
}

// StreamingOtoOutput uses Oto v3 for cross-platform audio
type StreamingOtoOutput struct {
	player     *oto.Player
	writer     *io.PipeWriter
	reader     *io.PipeReader
	sampleRate int
	channels   int
	bufferSize int
	opened     time.Time
	written    int64
	mu         sync.Mutex
	closed     bool
}

// NewStreamingOtoOutput creates a new streaming Oto output
func NewStreamingOtoOutput() (*StreamingOtoOutput, error) {
	return &StreamingOtoOutput{}, nil
}

// Open opens the streaming audio output
func (s *StreamingOtoOutput) Open(sampleRate, channels, bufferSize int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player != nil {
		return fmt.Errorf("stream already open")
	}

	context, err := otoContext(sampleRate, channels, bufferSize)
	if err != nil {
		return err
	}

	s.sampleRate = sampleRate
	s.channels = channels
	s.bufferSize = bufferSize
	s.opened = time.Now()
	s.written = 0
	s.reader, s.writer = io.Pipe()
	s.player = context.NewPlayer(s.reader)
	s.closed = false
	s.player.Play()

	return nil
}

// Close waits for queued audio to drain, then releases the player. The
// wait is bounded by the queued duration plus the device buffer.
func (s *StreamingOtoOutput) Close() error {
	s.mu.Lock()
	if s.closed || s.player == nil {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	player := s.player
	reader := s.reader
	deadline := drainDeadline(s.opened, time.Now(), s.written, s.sampleRate, s.channels, s.bufferSize)

	// signal EOF to the player
	s.writer.Close()
	s.mu.Unlock()

	for player.IsPlaying() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	err := player.Close()
	reader.Close()

	s.mu.Lock()
	s.player = nil
	s.reader = nil
	s.writer = nil
	s.mu.Unlock()

	globalOtoMutex.Lock()
	globalPlayers--
	globalOtoMutex.Unlock()

	return err
}

// drainDeadline is when audio written since opened should have played out,
// plus one device buffer and a fixed margin
func drainDeadline(opened, now time.Time, written int64, sampleRate, channels, bufferSize int) time.Time {
	if sampleRate <= 0 || channels <= 0 {
		return now.Add(drainMargin)
	}
	bytesPerSecond := int64(sampleRate * channels * 2)
	end := opened.Add(time.Duration(written) * time.Second / time.Duration(bytesPerSecond))
	if end.Before(now) {
		end = now
	}
	buffered := time.Duration(bufferSize) * time.Second / time.Duration(sampleRate)
	return end.Add(buffered + drainMargin)
}

// Write writes samples to the stream
func (s *StreamingOtoOutput) Write(samples []int16) error {
	s.mu.Lock()
	if s.closed || s.writer == nil {
		s.mu.Unlock()
		return fmt.Errorf("stream not open")
	}
	writer := s.writer
	s.mu.Unlock()

	data, err := EncodePCM(samples, 16)
	if err != nil {
		return err
	}

	n, err := writer.Write(data)
	s.mu.Lock()
	s.written += int64(n)
	s.mu.Unlock()
	return err
}

// IsPlaying returns true if playing
func (s *StreamingOtoOutput) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && s.player != nil
}

// FallbackOutput paces writes in real time without a sound device
type FallbackOutput struct {
	sampleRate int
	channels   int
	closed     bool
	mu         sync.Mutex
}

func NewFallbackOutput() (*FallbackOutput, error) {
	return &FallbackOutput{}, nil
}

func (f *FallbackOutput) Open(sampleRate, channels, bufferSize int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sampleRate = sampleRate
	f.channels = channels
	f.closed = false
	return nil
}

func (f *FallbackOutput) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	return nil
}

func (f *FallbackOutput) Write(samples []int16) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return fmt.Errorf("output closed")
	}
	sampleRate := f.sampleRate
	f.mu.Unlock()

	duration := time.Duration(len(samples)) * time.Second / time.Duration(sampleRate)
	time.Sleep(duration)
	return nil
}

func (f *FallbackOutput) IsPlaying() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.closed
}

// NewOutput selects a backend by name: "oto" (falling back to timed
// output when no device is available), "wav", "null" or "buffer".
func NewOutput(backend, wavFile string, bitsPerSample int) (Output, error) {
	switch backend {
	case "oto":
		return &deviceOutput{}, nil
	case "wav":
		if wavFile == "" {
			return nil, fmt.Errorf("wav output needs a file name")
		}
		return NewWAVOutput(wavFile, bitsPerSample)
	case "null":
		return &NullOutput{}, nil
	case "buffer":
		return NewBufferOutput(), nil
	}
	return nil, fmt.Errorf("unknown output backend: %s", backend)
}

// deviceOutput opens oto and falls back to FallbackOutput if the device
// cannot be opened. A rate conflict is reported, not hidden.
type deviceOutput struct {
	Output
	Fallback bool
}

func (d *deviceOutput) Open(sampleRate, channels, bufferSize int) error {
	out, _ := NewStreamingOtoOutput()
	err := out.Open(sampleRate, channels, bufferSize)
	if err == nil {
		d.Output = out
		return nil
	}
	// the device works, just not at this rate
	if errors.Is(err, ErrRateConflict) {
		return err
	}

	fb, _ := NewFallbackOutput()
	d.Output = fb
	d.Fallback = true
	return fb.Open(sampleRate, channels, bufferSize)
}

func (d *deviceOutput) Close() error {
	if d.Output == nil {
		return nil
	}
	return d.Output.Close()
}

func (d *deviceOutput) Write(samples []int16) error {
	if d.Output == nil {
		return fmt.Errorf("stream not open")
	}
	return d.Output.Write(samples)
}

func (d *deviceOutput) IsPlaying() bool {
	return d.Output != nil && d.Output.IsPlaying()
}

// UsingFallback reports whether an Output from NewOutput("oto", ...) runs
// without a sound device
func UsingFallback(o Output) bool {
	d, ok := o.(*deviceOutput)
	return ok && d.Fallback
}
