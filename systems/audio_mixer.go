package systems

import (
	"fmt"
	"io"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// Voice is a sound being played by a Mixer
type Voice interface {
	Play()
	Pause()
	IsPlaying() bool
	SetVolume(volume float64)
	Close() error
}

// Mixer creates voices from decoded 16-bit stereo PCM
type Mixer interface {
	SampleRate() int
	NewVoice(src io.Reader) (Voice, error)
}

// DecodedStream is PCM produced by a Decoder
type DecodedStream interface {
	io.ReadSeeker
	Length() int64
}

// Decoder turns an encoded file into PCM at the given sample rate
type Decoder func(sampleRate int, src io.ReadSeeker) (DecodedStream, error)

// DefaultDecoders returns the decoders for the formats ebiten supports, keyed by extension
func DefaultDecoders() map[string]Decoder {
	return map[string]Decoder{
		".mp3": func(sampleRate int, src io.ReadSeeker) (DecodedStream, error) {
			stream, err := mp3.DecodeWithSampleRate(sampleRate, src)
			if err != nil {
				return nil, err
			}
			return stream, nil
		},
		".ogg": func(sampleRate int, src io.ReadSeeker) (DecodedStream, error) {
			stream, err := vorbis.DecodeWithSampleRate(sampleRate, src)
			if err != nil {
				return nil, err
			}
			return stream, nil
		},
		".wav": func(sampleRate int, src io.ReadSeeker) (DecodedStream, error) {
			stream, err := wav.DecodeWithSampleRate(sampleRate, src)
			if err != nil {
				return nil, err
			}
			return stream, nil
		},
	}
}

// EbitenMixer plays voices through ebiten's audio context
type EbitenMixer struct {
	context *audio.Context
}

// NewEbitenMixer returns a mixer on the process-wide audio context, creating
// it at sampleRate if needed. ebiten allows only one context per process.
func NewEbitenMixer(sampleRate int) (*EbitenMixer, error) {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(sampleRate)
	} else if ctx.SampleRate() != sampleRate {
		return nil, fmt.Errorf("audio context already running at %d Hz, requested %d Hz", ctx.SampleRate(), sampleRate)
	}
	return &EbitenMixer{context: ctx}, nil
}

// SampleRate implements Mixer
func (m *EbitenMixer) SampleRate() int {
	return m.context.SampleRate()
}

// NewVoice implements Mixer
func (m *EbitenMixer) NewVoice(src io.Reader) (Voice, error) {
	player, err := m.context.NewPlayer(src)
	if err != nil {
		return nil, err
	}
	return player, nil
}

// loopStream wraps a decoded stream so it repeats forever
func loopStream(stream DecodedStream) io.Reader {
	return audio.NewInfiniteLoop(stream, stream.Length())
}
