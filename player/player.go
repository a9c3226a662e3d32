// Package player streams a sine tone of adjustable frequency to a tonestream.Sink.
package player

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/faiface/tonestream"
	"github.com/faiface/tonestream/generators"
	"github.com/faiface/tonestream/internal/metrics"
	"github.com/faiface/tonestream/internal/sched"
)

// DefaultBlockSize is the number of samples generated and written per loop iteration.
const DefaultBlockSize = 100

var (
	// ErrAlreadyPlaying is returned by Start when a session is already active.
	ErrAlreadyPlaying = errors.New("player: already playing")

	// ErrNotPlaying is returned by Stop when no session is active.
	ErrNotPlaying = errors.New("player: not playing")
)

// Player owns the Stopped/Playing state machine and the goroutine that feeds the sink.
//
// Start, Stop and Close are meant to be called from a single controlling goroutine (the UI).
// SetFrequency and Frequency may be called from anywhere.
type Player struct {
	sink      tonestream.Sink
	format    tonestream.Format
	blockSize int
	priority  bool
	log       *zap.Logger

	frequency atomic.Uint64 // math.Float64bits of the frequency in Hz
	active    atomic.Bool

	mu       sync.Mutex
	done     chan struct{}
	released bool
}

// Option configures a Player.
type Option func(*Player)

// WithFormat sets the sample format the sink was opened with. Only the sample rate affects
// generation.
func WithFormat(format tonestream.Format) Option {
	return func(p *Player) { p.format = format }
}

// WithBlockSize sets the number of samples per block.
func WithBlockSize(n int) Option {
	return func(p *Player) { p.blockSize = n }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(p *Player) { p.log = log }
}

// WithFrequency sets the initial frequency. The default is tonestream.MinFrequency.
func WithFrequency(hz float64) Option {
	return func(p *Player) { p.SetFrequency(hz) }
}

// WithPriority controls whether the loop goroutine asks for a raised OS scheduling priority. It is
// on by default.
func WithPriority(on bool) Option {
	return func(p *Player) { p.priority = on }
}

// New creates a stopped Player writing to sink.
func New(sink tonestream.Sink, opts ...Option) (*Player, error) {
	if sink == nil {
		return nil, errors.New("player: nil sink")
	}
	p := &Player{
		sink:      sink,
		format:    tonestream.DefaultFormat,
		blockSize: DefaultBlockSize,
		priority:  true,
		log:       zap.NewNop(),
	}
	p.SetFrequency(tonestream.MinFrequency)
	for _, opt := range opts {
		opt(p)
	}
	if err := p.format.Validate(); err != nil {
		return nil, errors.Wrap(err, "player")
	}
	if p.blockSize <= 0 {
		return nil, errors.Errorf("player: invalid block size: %d", p.blockSize)
	}
	return p, nil
}

// SetFrequency changes the tone frequency. It is valid whether or not the player is playing; a
// playing loop picks the new value up at its next block. hz is clamped to the supported range.
func (p *Player) SetFrequency(hz float64) {
	hz = tonestream.Clamp(hz)
	p.frequency.Store(math.Float64bits(hz))
	metrics.FrequencyHz.Set(hz)
}

// Frequency returns the most recently set frequency in Hz.
func (p *Player) Frequency() float64 {
	return math.Float64frombits(p.frequency.Load())
}

// Playing reports whether a session is active.
func (p *Player) Playing() bool {
	return p.active.Load()
}

// Start begins a playback session. The sink is flushed and started, the phase restarts at zero and
// a new loop goroutine begins writing blocks.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.released {
		return errors.New("player: sink released")
	}
	if p.done != nil {
		return ErrAlreadyPlaying
	}

	if err := p.sink.Flush(); err != nil {
		return errors.Wrap(err, "player: flush sink")
	}
	if err := p.sink.Play(); err != nil {
		return errors.Wrap(err, "player: start sink")
	}

	done := make(chan struct{})
	p.done = done
	p.active.Store(true)
	metrics.Playing.Set(1)
	metrics.SessionsTotal.Inc()

	go p.run(done)
	return nil
}

// Stop ends the playback session. It halts the sink and then waits for the loop goroutine to
// notice and exit, which takes at most one block write.
//
// The player is stopped even if halting the sink fails; the error is still returned.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stop()
}

func (p *Player) stop() error {
	if p.done == nil {
		return ErrNotPlaying
	}

	p.active.Store(false)
	err := p.sink.Stop()
	if err != nil {
		p.log.Warn("failed to stop sink", zap.Error(err))
	}
	<-p.done
	p.done = nil
	metrics.Playing.Set(0)

	return errors.Wrap(err, "player: stop sink")
}

// Close stops playback if needed and releases the sink. Embedding applications call it when they
// go to the background or exit.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.released {
		return nil
	}
	var stopErr error
	if p.done != nil {
		stopErr = p.stop()
	}
	p.released = true
	if err := p.sink.Release(); err != nil {
		return errors.Wrap(err, "player: release sink")
	}
	return stopErr
}

func (p *Player) run(done chan struct{}) {
	defer close(done)

	if p.priority {
		if err := sched.Elevate(); err != nil {
			p.log.Debug("running audio loop at normal priority", zap.Error(err))
		}
	}

	log := p.log.With(zap.Int("blockSize", p.blockSize), zap.Int("sampleRate", int(p.format.SampleRate)))
	log.Debug("audio loop started")

	tone := generators.NewTone(p.format.SampleRate)
	block := make([]int16, p.blockSize)
	blocks := 0

	for p.active.Load() {
		tone.Next(p.Frequency(), block)

		start := time.Now()
		_, err := p.sink.Write(block)
		metrics.SinkWriteDuration.Observe(float64(time.Since(start)) / float64(time.Millisecond))
		if err != nil {
			if p.active.Load() {
				metrics.SinkWriteErrorsTotal.Inc()
				log.Warn("sink write failed", zap.Error(err))
				// A failing sink returns at once; hold the block's playing time so the loop keeps pace.
				time.Sleep(p.format.SampleRate.D(len(block)))
			}
			continue
		}
		metrics.BlocksWrittenTotal.Inc()
		blocks++
	}

	log.Debug("audio loop left", zap.Int("blocks", blocks))
}
