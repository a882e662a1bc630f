package components

import (
	"github.com/google/uuid"
)

// PlaybackID identifies one Play request
type PlaybackID = uuid.UUID

// PlayRequest is a queued playback waiting for the audio system
type PlayRequest struct {
	ID     PlaybackID
	Path   string
	Volume float64
	Loop   bool
}

// AudioComponent lets an entity play sound files. Requests are queued here
// and carried out by the audio system on its next update.
type AudioComponent struct {
	Volume float64 // 0.0 to 1.0, applied to new and playing sounds
	Loop   bool    // Whether new sounds repeat until stopped

	requests      []PlayRequest
	stopRequested bool
	volumeChanged bool
}

// NewAudioComponent creates an audio component at full volume
func NewAudioComponent() *AudioComponent {
	return &AudioComponent{
		Volume: 1.0,
	}
}

// Play queues a sound file for playback and returns its id
func (a *AudioComponent) Play(path string) PlaybackID {
	req := PlayRequest{
		ID:     uuid.New(),
		Path:   path,
		Volume: a.Volume,
		Loop:   a.Loop,
	}
	a.requests = append(a.requests, req)
	return req.ID
}

// Stop stops everything the entity is playing and drops queued requests
func (a *AudioComponent) Stop() {
	a.requests = nil
	a.stopRequested = true
}

// SetVolume changes the volume, clamped to [0, 1]
func (a *AudioComponent) SetVolume(volume float64) {
	if volume < 0 {
		volume = 0
	} else if volume > 1 {
		volume = 1
	}
	a.Volume = volume
	a.volumeChanged = true
}

// Pending returns the queued requests
func (a *AudioComponent) Pending() []PlayRequest {
	pending := make([]PlayRequest, len(a.requests))
	copy(pending, a.requests)
	return pending
}

// AudioCommands is what the audio system consumes from a component per update
type AudioCommands struct {
	Stop          bool
	VolumeChanged bool
	Requests      []PlayRequest
}

// TakeCommands drains the queued requests and flags
func (a *AudioComponent) TakeCommands() AudioCommands {
	cmds := AudioCommands{
		Stop:          a.stopRequested,
		VolumeChanged: a.volumeChanged,
		Requests:      a.requests,
	}
	a.requests = nil
	a.stopRequested = false
	a.volumeChanged = false
	return cmds
}
