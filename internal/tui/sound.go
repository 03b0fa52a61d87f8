package tui

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/services/tetris"
)

const sampleRate = beep.SampleRate(44100)

// tone is one step of a sound cue.
type tone struct {
	freq     float64
	duration time.Duration
}

// cueTones returns the tones played for a game event.
func cueTones(e tetris.Event) []tone {
	switch e.Type {
	case tetris.EventPieceLocked:
		return []tone{{220, 40 * time.Millisecond}}
	case tetris.EventLinesCleared:
		// 消したライン数だけ音程を上げていく
		tones := make([]tone, 0, e.Lines)
		freq := 523.25
		for i := 0; i < e.Lines; i++ {
			tones = append(tones, tone{freq, 70 * time.Millisecond})
			freq *= 1.25
		}
		return tones
	case tetris.EventGameOver:
		return []tone{
			{392, 150 * time.Millisecond},
			{330, 150 * time.Millisecond},
			{262, 300 * time.Millisecond},
		}
	}
	return nil
}

// cueStreamer builds a finite streamer for the event, or nil if it has no cue.
func cueStreamer(e tetris.Event) beep.Streamer {
	tones := cueTones(e)
	if len(tones) == 0 {
		return nil
	}
	parts := make([]beep.Streamer, 0, len(tones))
	for _, t := range tones {
		sine, err := generators.SineTone(sampleRate, t.freq)
		if err != nil {
			continue
		}
		parts = append(parts, beep.Take(sampleRate.N(t.duration), sine))
	}
	if len(parts) == 0 {
		return nil
	}
	return &effects.Volume{Streamer: beep.Seq(parts...), Base: 2, Volume: -3}
}

// SoundPlayer plays short tones for game events. It implements tetris.EventHandler.
type SoundPlayer struct {
	mu          sync.Mutex
	initialized bool
	muted       bool
}

func NewSoundPlayer() *SoundPlayer {
	return &SoundPlayer{}
}

// Init opens the audio device. The game runs silently when it fails.
func (p *SoundPlayer) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	p.initialized = true
	return nil
}

// ToggleMute flips the mute flag and returns the new value.
func (p *SoundPlayer) ToggleMute() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = !p.muted
	return p.muted
}

func (p *SoundPlayer) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

func (p *SoundPlayer) HandleEvent(e tetris.Event) {
	p.mu.Lock()
	active := p.initialized && !p.muted
	p.mu.Unlock()
	if !active {
		return
	}
	if s := cueStreamer(e); s != nil {
		speaker.Play(s)
	}
}

func (p *SoundPlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		speaker.Close()
		p.initialized = false
	}
}
