package systems

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wlengine/components"
	"wlengine/ecs"
)

type fakeVoice struct {
	src      io.Reader
	playing  bool
	closed   bool
	volume   float64
	closeErr error
}

func (v *fakeVoice) Play()                    { v.playing = true }
func (v *fakeVoice) Pause()                   { v.playing = false }
func (v *fakeVoice) IsPlaying() bool          { return v.playing }
func (v *fakeVoice) SetVolume(volume float64) { v.volume = volume }
func (v *fakeVoice) Close() error {
	v.closed = true
	v.playing = false
	return v.closeErr
}

type fakeMixer struct {
	voices []*fakeVoice
	err    error
}

func (m *fakeMixer) SampleRate() int { return 44100 }

func (m *fakeMixer) NewVoice(src io.Reader) (Voice, error) {
	if m.err != nil {
		return nil, m.err
	}
	v := &fakeVoice{src: src}
	m.voices = append(m.voices, v)
	return v, nil
}

// toneStream is a decoded stream of silent PCM
type toneStream struct {
	*bytes.Reader
}

func (s toneStream) Length() int64 {
	return s.Size()
}

func decodeTone(sampleRate int, src io.ReadSeeker) (DecodedStream, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	if string(data) == "corrupt" {
		return nil, errors.New("bad header")
	}
	return toneStream{bytes.NewReader(make([]byte, 64))}, nil
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

type audioFixture struct {
	world   *ecs.World
	mixer   *fakeMixer
	system  *AudioSystem
	entity  *ecs.Entity
	audio   *components.AudioComponent
	started []AudioStartedEvent
	done    []AudioFinishedEvent
	failed  []AudioErrorEvent
}

func newAudioFixture(t *testing.T) *audioFixture {
	t.Helper()
	f := &audioFixture{
		world: ecs.NewWorld(),
		mixer: &fakeMixer{},
	}
	f.system = NewAudioSystem(f.mixer, nil)
	f.system.RegisterDecoder(".tone", decodeTone)
	f.world.AddSystem(f.system)

	f.entity = f.world.CreateEntity()
	f.audio = components.NewAudioComponent()
	f.world.AddComponent(f.entity.ID, components.Audio, f.audio)

	em := f.world.GetEventManager()
	em.Subscribe(EventAudioStarted, func(e ecs.Event) { f.started = append(f.started, e.(AudioStartedEvent)) })
	em.Subscribe(EventAudioFinished, func(e ecs.Event) { f.done = append(f.done, e.(AudioFinishedEvent)) })
	em.Subscribe(EventAudioError, func(e ecs.Event) { f.failed = append(f.failed, e.(AudioErrorEvent)) })
	return f
}

func TestAudioSystem_PlayStartsVoice(t *testing.T) {
	f := newAudioFixture(t)
	path := writeFile(t, "hit.tone", "tone")

	f.audio.SetVolume(0.5)
	id := f.audio.Play(path)
	assert.Empty(t, f.mixer.voices, "nothing plays before the system runs")

	f.world.Update(1.0 / 60.0)

	require.Len(t, f.mixer.voices, 1)
	voice := f.mixer.voices[0]
	assert.True(t, voice.playing)
	assert.Equal(t, 0.5, voice.volume)
	_, direct := voice.src.(toneStream)
	assert.True(t, direct, "non-looping sounds play the decoded stream directly")

	require.Len(t, f.started, 1)
	assert.Equal(t, AudioStartedEvent{EntityID: f.entity.ID, PlaybackID: id, Path: path}, f.started[0])
	assert.Equal(t, 1, f.system.ActiveVoices(f.entity.ID))
}

func TestAudioSystem_FinishedVoicesAreReaped(t *testing.T) {
	f := newAudioFixture(t)
	id := f.audio.Play(writeFile(t, "hit.tone", "tone"))
	f.world.Update(1.0 / 60.0)

	voice := f.mixer.voices[0]
	voice.playing = false
	f.world.Update(1.0 / 60.0)

	assert.True(t, voice.closed)
	require.Len(t, f.done, 1)
	assert.Equal(t, id, f.done[0].PlaybackID)
	assert.Equal(t, 0, f.system.ActiveVoices(f.entity.ID))
}

func TestAudioSystem_Errors(t *testing.T) {
	f := newAudioFixture(t)

	f.audio.Play(filepath.Join(t.TempDir(), "missing.tone"))
	f.audio.Play(writeFile(t, "notes.txt", "text"))
	f.audio.Play(writeFile(t, "broken.tone", "corrupt"))
	f.world.Update(1.0 / 60.0)

	require.Len(t, f.failed, 3)
	assert.ErrorIs(t, f.failed[0].Err, os.ErrNotExist)
	assert.Contains(t, f.failed[1].Err.Error(), "unsupported audio format")
	assert.Contains(t, f.failed[2].Err.Error(), "failed to decode")
	assert.Empty(t, f.started)
	assert.Empty(t, f.mixer.voices)
}

func TestAudioSystem_MixerFailure(t *testing.T) {
	f := newAudioFixture(t)
	f.mixer.err = errors.New("no device")

	f.audio.Play(writeFile(t, "hit.tone", "tone"))
	f.world.Update(1.0 / 60.0)

	require.Len(t, f.failed, 1)
	assert.Contains(t, f.failed[0].Err.Error(), "no device")
}

func TestAudioSystem_StopAndVolume(t *testing.T) {
	f := newAudioFixture(t)
	f.audio.Loop = true
	f.audio.Play(writeFile(t, "a.tone", "tone"))
	f.audio.Play(writeFile(t, "b.tone", "tone"))
	f.world.Update(1.0 / 60.0)
	require.Len(t, f.mixer.voices, 2)

	_, isStream := f.mixer.voices[0].src.(toneStream)
	assert.False(t, isStream, "looping sounds are wrapped")

	f.audio.SetVolume(0.25)
	f.system.SetVolume(0.5)
	f.world.Update(1.0 / 60.0)
	for _, v := range f.mixer.voices {
		assert.Equal(t, 0.125, v.volume)
	}
	assert.Equal(t, 0.5, f.system.GetVolume())

	f.audio.Stop()
	f.world.Update(1.0 / 60.0)
	for _, v := range f.mixer.voices {
		assert.True(t, v.closed)
	}
	assert.Empty(t, f.done, "stopped sounds do not report finishing")
}

func TestAudioSystem_RemovedEntityIsSilenced(t *testing.T) {
	f := newAudioFixture(t)
	f.audio.Play(writeFile(t, "hit.tone", "tone"))
	f.world.Update(1.0 / 60.0)

	f.world.RemoveEntity(f.entity.ID)
	f.world.Update(1.0 / 60.0)

	assert.True(t, f.mixer.voices[0].closed)
	assert.Equal(t, 0, f.system.ActiveVoices(f.entity.ID))
}

func TestAudioSystem_BGM(t *testing.T) {
	f := newAudioFixture(t)

	require.Error(t, f.system.PlayBGM(writeFile(t, "theme.flac", "x")))
	assert.False(t, f.system.IsBGMPlaying())

	first := writeFile(t, "theme.tone", "tone")
	require.NoError(t, f.system.PlayBGM(first))
	assert.True(t, f.system.IsBGMPlaying())

	f.system.PauseBGM()
	assert.False(t, f.system.IsBGMPlaying())
	f.system.ResumeBGM()
	assert.True(t, f.system.IsBGMPlaying())

	require.NoError(t, f.system.PlayBGM(writeFile(t, "boss.tone", "tone")))
	require.Len(t, f.mixer.voices, 2)
	assert.True(t, f.mixer.voices[0].closed, "previous track is closed")

	require.NoError(t, f.world.Close())
	assert.False(t, f.system.IsBGMPlaying())
	assert.True(t, f.mixer.voices[1].closed)
}

func TestAudioSystem_CloseReportsErrors(t *testing.T) {
	f := newAudioFixture(t)
	f.audio.Play(writeFile(t, "hit.tone", "tone"))
	require.NoError(t, f.system.PlayBGM(writeFile(t, "theme.tone", "tone")))
	f.world.Update(1.0 / 60.0)
	require.Len(t, f.mixer.voices, 2)

	f.mixer.voices[0].closeErr = errors.New("bgm device lost")
	f.mixer.voices[1].closeErr = errors.New("sfx device lost")

	err := f.world.Close()
	require.Error(t, err)
	assert.ErrorContains(t, err, "bgm device lost")
	assert.ErrorContains(t, err, "sfx device lost")
	assert.True(t, f.mixer.voices[0].closed)
	assert.True(t, f.mixer.voices[1].closed)
}

// wavFile builds a 16-bit stereo PCM wav file
func wavFile(t *testing.T, sampleRate, frames int) []byte {
	t.Helper()
	var buf bytes.Buffer
	dataSize := frames * 4
	write := func(v any) { require.NoError(t, binary.Write(&buf, binary.LittleEndian, v)) }

	buf.WriteString("RIFF")
	write(uint32(36 + dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	write(uint32(16))
	write(uint16(1)) // PCM
	write(uint16(2)) // channels
	write(uint32(sampleRate))
	write(uint32(sampleRate * 4))
	write(uint16(4))
	write(uint16(16))
	buf.WriteString("data")
	write(uint32(dataSize))
	buf.Write(make([]byte, dataSize))
	return buf.Bytes()
}

func TestAudioSystem_DecodesWav(t *testing.T) {
	f := newAudioFixture(t)
	path := filepath.Join(t.TempDir(), "beep.wav")
	require.NoError(t, os.WriteFile(path, wavFile(t, 44100, 441), 0o644))

	f.audio.Play(path)
	f.world.Update(1.0 / 60.0)

	require.Empty(t, f.failed)
	require.Len(t, f.mixer.voices, 1)
	stream, ok := f.mixer.voices[0].src.(DecodedStream)
	require.True(t, ok)
	assert.Equal(t, int64(441*4), stream.Length())
}
