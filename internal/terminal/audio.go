package terminal

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

// Cue plays a short sound.
type Cue interface {
	Play()
	Close()
}

// SilentCue does nothing. Used when audio is disabled or unavailable.
type SilentCue struct{}

func (SilentCue) Play()  {}
func (SilentCue) Close() {}

const (
	cueSampleRate = beep.SampleRate(44100)
	cueFrequency  = 440
	cueDuration   = 120 * time.Millisecond
)

type toneCue struct {
	sr beep.SampleRate
}

// NewToneCue opens the speaker and returns a cue playing a short sine tone.
func NewToneCue() (Cue, error) {
	if err := speaker.Init(cueSampleRate, cueSampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &toneCue{sr: cueSampleRate}, nil
}

func (c *toneCue) Play() {
	sine, err := generators.SineTone(c.sr, cueFrequency)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(c.sr.N(cueDuration), sine))
}

func (c *toneCue) Close() {
	speaker.Close()
}
