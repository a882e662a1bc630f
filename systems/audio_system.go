package systems

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"wlengine/components"
	"wlengine/ecs"
	"wlengine/logging"
)

// activeVoice is a sound started by the audio system
type activeVoice struct {
	id     components.PlaybackID
	path   string
	volume float64
	loop   bool
	voice  Voice
	file   io.Closer
}

func (v *activeVoice) close() error {
	return errors.Join(v.voice.Close(), v.file.Close())
}

// AudioSystem plays the sounds requested through Audio components and the background music
type AudioSystem struct {
	mixer    Mixer
	decoders map[string]Decoder
	logger   logging.Logger

	voices map[ecs.EntityID][]*activeVoice
	bgm    *activeVoice
	volume float64
}

// NewAudioSystem creates a new audio system
func NewAudioSystem(mixer Mixer, logger logging.Logger) *AudioSystem {
	if logger == nil {
		logger = logging.Discard()
	}
	return &AudioSystem{
		mixer:    mixer,
		decoders: DefaultDecoders(),
		logger:   logger,
		voices:   make(map[ecs.EntityID][]*activeVoice),
		volume:   1.0, // Default volume
	}
}

// RegisterDecoder adds or replaces the decoder for a file extension such as ".flac"
func (s *AudioSystem) RegisterDecoder(ext string, decoder Decoder) {
	s.decoders[strings.ToLower(ext)] = decoder
}

// Update carries out queued Audio component commands and reaps finished sounds
func (s *AudioSystem) Update(world *ecs.World, dt float64) {
	for _, entity := range world.Query(components.Audio) {
		comp, _ := world.GetComponent(entity.ID, components.Audio)
		audioComp := comp.(*components.AudioComponent)

		cmds := audioComp.TakeCommands()
		if cmds.Stop {
			s.logCloseError(entity.ID, s.stopEntity(entity.ID))
		}
		if cmds.VolumeChanged {
			for _, v := range s.voices[entity.ID] {
				v.volume = audioComp.Volume
				v.voice.SetVolume(v.volume * s.volume)
			}
		}
		for _, req := range cmds.Requests {
			s.startRequest(world, entity.ID, req)
		}
	}

	s.reap(world)
}

func (s *AudioSystem) startRequest(world *ecs.World, entityID ecs.EntityID, req components.PlayRequest) {
	v, err := s.start(req.Path, req.Volume, req.Loop)
	if err != nil {
		s.logger.Warn("audio playback failed", "entity", entityID, "path", req.Path, "err", err)
		world.EmitEvent(AudioErrorEvent{EntityID: entityID, PlaybackID: req.ID, Path: req.Path, Err: err})
		return
	}

	v.id = req.ID
	s.voices[entityID] = append(s.voices[entityID], v)
	s.logger.Debug("audio started", "entity", entityID, "path", req.Path, "loop", req.Loop)
	world.EmitEvent(AudioStartedEvent{EntityID: entityID, PlaybackID: req.ID, Path: req.Path})
}

// reap closes voices whose sound ended or whose entity lost its Audio component
func (s *AudioSystem) reap(world *ecs.World) {
	for entityID, voices := range s.voices {
		if !world.HasComponent(entityID, components.Audio) {
			s.logCloseError(entityID, s.stopEntity(entityID))
			continue
		}

		remaining := voices[:0]
		for _, v := range voices {
			if v.voice.IsPlaying() {
				remaining = append(remaining, v)
				continue
			}
			s.logCloseError(entityID, v.close())
			world.EmitEvent(AudioFinishedEvent{EntityID: entityID, PlaybackID: v.id, Path: v.path})
		}

		if len(remaining) == 0 {
			delete(s.voices, entityID)
		} else {
			s.voices[entityID] = remaining
		}
	}
}

func (s *AudioSystem) stopEntity(entityID ecs.EntityID) error {
	var errs []error
	for _, v := range s.voices[entityID] {
		errs = append(errs, v.close())
	}
	delete(s.voices, entityID)
	return errors.Join(errs...)
}

func (s *AudioSystem) logCloseError(entityID ecs.EntityID, err error) {
	if err != nil {
		s.logger.Warn("failed to close audio", "entity", entityID, "err", err)
	}
}

// ActiveVoices returns how many component sounds an entity is playing
func (s *AudioSystem) ActiveVoices(entityID ecs.EntityID) int {
	return len(s.voices[entityID])
}

// start opens, decodes and starts a sound file
func (s *AudioSystem) start(path string, volume float64, loop bool) (*activeVoice, error) {
	decode, ok := s.decoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("unsupported audio format: %s", path)
	}

	// Open the audio file
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}

	stream, err := decode(s.mixer.SampleRate(), file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to decode audio file: %w", err)
	}

	var src io.Reader = stream
	if loop {
		src = loopStream(stream)
	}

	voice, err := s.mixer.NewVoice(src)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create audio player: %w", err)
	}

	v := &activeVoice{
		path:   path,
		volume: volume,
		loop:   loop,
		voice:  voice,
		file:   file,
	}
	voice.SetVolume(volume * s.volume)
	voice.Play()
	return v, nil
}

// PlayBGM starts looping background music, replacing the current track
func (s *AudioSystem) PlayBGM(path string) error {
	if err := s.StopBGM(); err != nil {
		s.logger.Warn("failed to close background music", "err", err)
	}

	v, err := s.start(path, 1.0, true)
	if err != nil {
		return err
	}
	s.bgm = v
	return nil
}

// StopBGM stops the background music
func (s *AudioSystem) StopBGM() error {
	if s.bgm == nil {
		return nil
	}
	err := s.bgm.close()
	s.bgm = nil
	return err
}

// PauseBGM pauses the background music
func (s *AudioSystem) PauseBGM() {
	if s.bgm != nil {
		s.bgm.voice.Pause()
	}
}

// ResumeBGM resumes the background music
func (s *AudioSystem) ResumeBGM() {
	if s.bgm != nil {
		s.bgm.voice.Play()
	}
}

// IsBGMPlaying returns whether background music is currently playing
func (s *AudioSystem) IsBGMPlaying() bool {
	return s.bgm != nil && s.bgm.voice.IsPlaying()
}

// SetVolume sets the master volume (0.0 to 1.0) applied to every sound
func (s *AudioSystem) SetVolume(volume float64) {
	if volume < 0 {
		volume = 0
	} else if volume > 1 {
		volume = 1
	}
	s.volume = volume

	if s.bgm != nil {
		s.bgm.voice.SetVolume(s.bgm.volume * volume)
	}
	for _, voices := range s.voices {
		for _, v := range voices {
			v.voice.SetVolume(v.volume * volume)
		}
	}
}

// GetVolume returns the master volume
func (s *AudioSystem) GetVolume() float64 {
	return s.volume
}

// Close stops all sounds and returns the errors of closing them
func (s *AudioSystem) Close() error {
	errs := []error{s.StopBGM()}
	for entityID := range s.voices {
		errs = append(errs, s.stopEntity(entityID))
	}
	return errors.Join(errs...)
}
