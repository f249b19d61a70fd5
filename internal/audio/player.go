// Package audio plays synthesized speech payloads. A playback is a scoped
// acquisition: starting a new one releases the previous one, and Close is
// safe on every exit path.
package audio

import (
	"bytes"
	"io"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"github.com/pkg/errors"
)

const speakerBufferDuration = 100 * time.Millisecond

// Player owns the speaker. One playback is live at a time; a new Play
// supersedes and releases the previous one.
type Player struct {
	mu         sync.Mutex
	sampleRate beep.SampleRate
	current    *Playback
}

// NewPlayer instantiates a player. The speaker is initialized lazily with
// the first payload's sample rate; later payloads are resampled to it.
func NewPlayer() *Player {
	return &Player{}
}

// Play decodes an audio payload and starts playback immediately, releasing
// whatever was playing before.
func (p *Player) Play(data []byte) (*Playback, error) {
	streamer, format, err := decode(data)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != nil {
		p.current.Close()
		p.current = nil
	}
	if p.sampleRate == 0 {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(speakerBufferDuration)); err != nil {
			streamer.Close()
			return nil, errors.Wrap(err, "initializing speaker")
		}
		p.sampleRate = format.SampleRate
	}

	playback := newPlayback(streamer, format, p.sampleRate)
	p.current = playback
	speaker.Play(playback.volume)
	return playback, nil
}

// Close stops and releases the live playback, if any.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != nil {
		p.current.Close()
		p.current = nil
	}
}

// Playback is one playing audio resource with transport controls.
type Playback struct {
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume

	done      chan struct{}
	doneOnce  sync.Once
	closeOnce sync.Once
}

func newPlayback(streamer beep.StreamSeekCloser, format beep.Format, playerRate beep.SampleRate) *Playback {
	playback := &Playback{
		streamer: streamer,
		format:   format,
		done:     make(chan struct{}),
	}

	var stream beep.Streamer = streamer
	if format.SampleRate != playerRate {
		stream = beep.Resample(4, format.SampleRate, playerRate, streamer)
	}
	playback.ctrl = &beep.Ctrl{
		Streamer: beep.Seq(stream, beep.Callback(playback.finish)),
	}
	playback.volume = &effects.Volume{Streamer: playback.ctrl, Base: 2}
	return playback
}

// TogglePause flips the pause state and returns whether playback is now
// paused.
func (p *Playback) TogglePause() bool {
	speaker.Lock()
	defer speaker.Unlock()
	p.ctrl.Paused = !p.ctrl.Paused
	return p.ctrl.Paused
}

// Paused reports the pause state.
func (p *Playback) Paused() bool {
	speaker.Lock()
	defer speaker.Unlock()
	return p.ctrl.Paused
}

// ToggleMute flips the mute state and returns whether playback is now muted.
func (p *Playback) ToggleMute() bool {
	speaker.Lock()
	defer speaker.Unlock()
	p.volume.Silent = !p.volume.Silent
	return p.volume.Silent
}

// Muted reports the mute state.
func (p *Playback) Muted() bool {
	speaker.Lock()
	defer speaker.Unlock()
	return p.volume.Silent
}

// Position returns the current playback position.
func (p *Playback) Position() time.Duration {
	speaker.Lock()
	defer speaker.Unlock()
	return p.format.SampleRate.D(p.streamer.Position())
}

// Duration returns the total duration of the resource, 0 when unknown.
func (p *Playback) Duration() time.Duration {
	speaker.Lock()
	defer speaker.Unlock()
	return p.format.SampleRate.D(p.streamer.Len())
}

// Seek moves the playback position, clamped to [0, duration].
func (p *Playback) Seek(to time.Duration) error {
	speaker.Lock()
	defer speaker.Unlock()
	target := clampSeek(p.format.SampleRate.N(to), p.streamer.Len())
	if err := p.streamer.Seek(target); err != nil {
		return errors.Wrap(err, "seeking")
	}
	return nil
}

// Done is closed when the resource finishes or is released.
func (p *Playback) Done() <-chan struct{} {
	return p.done
}

// Close stops playback and releases the decoder. Safe to call more than
// once and after natural completion.
func (p *Playback) Close() {
	p.closeOnce.Do(func() {
		speaker.Clear()
		p.streamer.Close()
		p.finish()
	})
}

func (p *Playback) finish() {
	p.doneOnce.Do(func() { close(p.done) })
}

// clampSeek bounds a sample position to the stream's valid range.
func clampSeek(position, length int) int {
	if length <= 0 || position < 0 {
		return 0
	}
	if position > length {
		return length
	}
	return position
}

// audioReader adapts an in-memory payload to the decoders, which take
// ownership of closing their source.
type audioReader struct {
	*bytes.Reader
}

func (audioReader) Close() error { return nil }

func newAudioReader(data []byte) io.ReadCloser {
	return audioReader{bytes.NewReader(data)}
}

type payloadFormat int

const (
	payloadUnknown payloadFormat = iota
	payloadMP3
	payloadWAV
)

// detectFormat sniffs the payload's container. The backend does not declare
// a content type on /speak responses.
func detectFormat(data []byte) payloadFormat {
	if len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE" {
		return payloadWAV
	}
	if len(data) >= 3 && string(data[0:3]) == "ID3" {
		return payloadMP3
	}
	if len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0 {
		return payloadMP3
	}
	return payloadUnknown
}

func decode(data []byte) (beep.StreamSeekCloser, beep.Format, error) {
	switch detectFormat(data) {
	case payloadWAV:
		streamer, format, err := wav.Decode(newAudioReader(data))
		return streamer, format, errors.Wrap(err, "decoding wav")
	case payloadMP3:
		streamer, format, err := mp3.Decode(newAudioReader(data))
		return streamer, format, errors.Wrap(err, "decoding mp3")
	default:
		return nil, beep.Format{}, errors.New("unrecognized audio payload")
	}
}
