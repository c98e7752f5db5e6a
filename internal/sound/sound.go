// Package sound plays the completion cue.
package sound

import (
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"

	"github.com/verte-zerg/odak/internal/log"
	"github.com/verte-zerg/odak/internal/model"
)

// SampleRate is the rate the speaker is opened at and chimes are built for.
const SampleRate = beep.SampleRate(44100)

const (
	focusPitch = 880.0
	breakPitch = 523.25
	fade       = 10 * time.Millisecond
)

// Nop is a silent notifier.
type Nop struct{}

// Notify does nothing.
func (Nop) Notify(model.Mode) {}

// Tone plays a short sine chime on the default audio device. The device is
// opened on first use; if that fails the cue is dropped and the failure is
// logged once.
type Tone struct {
	volume float64
	logger *log.Logger

	once    sync.Once
	initErr error
}

// NewTone returns a notifier. volume is a base-2 gain where 0 leaves the
// signal unchanged and -1 halves it.
func NewTone(volume float64, logger *log.Logger) *Tone {
	return &Tone{volume: volume, logger: logger}
}

// Notify plays the cue for the mode that just completed.
func (t *Tone) Notify(mode model.Mode) {
	t.once.Do(func() {
		t.initErr = speaker.Init(SampleRate, SampleRate.N(time.Second/10))
		if t.initErr != nil {
			t.logger.Record(log.LogEvent{Event: log.EventAudioError, Error: t.initErr.Error()})
		}
	})
	if t.initErr != nil {
		return
	}
	speaker.Play(Volume(Chime(SampleRate, mode), t.volume))
}

// Chime returns the cue for a completed mode. Focus completions rise over
// two notes; break completions are a single lower note.
func Chime(sr beep.SampleRate, mode model.Mode) beep.Streamer {
	if mode == model.ModeFocus {
		return beep.Seq(
			Sine(sr, focusPitch, 180*time.Millisecond),
			Sine(sr, focusPitch*1.5, 260*time.Millisecond),
		)
	}
	return Sine(sr, breakPitch, 350*time.Millisecond)
}

// Volume wraps s with a base-2 gain.
func Volume(s beep.Streamer, volume float64) beep.Streamer {
	return &effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   volume,
		Silent:   volume <= -10,
	}
}

// Sine returns a mono sine tone of freq Hz lasting d, with short linear
// fades at both ends to avoid clicks.
func Sine(sr beep.SampleRate, freq float64, d time.Duration) beep.Streamer {
	total := sr.N(d)
	ramp := sr.N(fade)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n := 0
		for n < len(samples) && pos < total {
			v := math.Sin(2*math.Pi*freq*float64(pos)/float64(sr)) * envelope(pos, total, ramp)
			samples[n][0] = v
			samples[n][1] = v
			n++
			pos++
		}
		return n, true
	})
}

func envelope(pos, total, ramp int) float64 {
	if ramp <= 0 {
		return 1
	}
	if pos < ramp {
		return float64(pos) / float64(ramp)
	}
	if left := total - pos - 1; left < ramp {
		return float64(left) / float64(ramp)
	}
	return 1
}
