package systems

import (
	"wlengine/components"
	"wlengine/ecs"
)

// Event type constants
const (
	EventAudioStarted  ecs.EventType = "audio_started"
	EventAudioFinished ecs.EventType = "audio_finished"
	EventAudioError    ecs.EventType = "audio_error"
	EventShaderError   ecs.EventType = "shader_error"
)

// AudioStartedEvent is emitted when a Play request starts sounding
type AudioStartedEvent struct {
	EntityID   ecs.EntityID
	PlaybackID components.PlaybackID
	Path       string
}

// Type returns the event type
func (e AudioStartedEvent) Type() ecs.EventType {
	return EventAudioStarted
}

// AudioFinishedEvent is emitted when a non-looping sound reaches its end
type AudioFinishedEvent struct {
	EntityID   ecs.EntityID
	PlaybackID components.PlaybackID
	Path       string
}

// Type returns the event type
func (e AudioFinishedEvent) Type() ecs.EventType {
	return EventAudioFinished
}

// AudioErrorEvent is emitted when a Play request cannot be carried out
type AudioErrorEvent struct {
	EntityID   ecs.EntityID
	PlaybackID components.PlaybackID
	Path       string
	Err        error
}

// Type returns the event type
func (e AudioErrorEvent) Type() ecs.EventType {
	return EventAudioError
}

// ShaderErrorEvent is emitted when a material cannot be drawn
type ShaderErrorEvent struct {
	EntityID ecs.EntityID
	Shader   string
	Err      error
}

// Type returns the event type
func (e ShaderErrorEvent) Type() ecs.EventType {
	return EventShaderError
}
