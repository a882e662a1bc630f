package systems

import (
	"fmt"
	"path/filepath"

	"wlengine/ecs"
)

// MessageLog keeps the latest engine messages for the on-screen overlay
type MessageLog struct {
	Messages    []string
	MaxMessages int
}

// NewMessageLog creates a new message log
func NewMessageLog(maxMessages int) *MessageLog {
	if maxMessages <= 0 {
		maxMessages = 100
	}
	return &MessageLog{
		Messages:    []string{},
		MaxMessages: maxMessages,
	}
}

// Add adds a message to the log
func (ml *MessageLog) Add(message string) {
	ml.Messages = append(ml.Messages, message)

	// Truncate if we have too many messages
	if len(ml.Messages) > ml.MaxMessages {
		ml.Messages = ml.Messages[len(ml.Messages)-ml.MaxMessages:]
	}
}

// Addf adds a formatted message to the log
func (ml *MessageLog) Addf(format string, args ...any) {
	ml.Add(fmt.Sprintf(format, args...))
}

// RecentMessages gets the n most recent messages, newest first
func (ml *MessageLog) RecentMessages(n int) []string {
	if n > len(ml.Messages) {
		n = len(ml.Messages)
	}

	result := make([]string, n)
	for i := 0; i < n; i++ {
		result[i] = ml.Messages[len(ml.Messages)-1-i]
	}

	return result
}

// Clear clears all messages
func (ml *MessageLog) Clear() {
	ml.Messages = []string{}
}

// Follow mirrors audio and shader events of a world into the log
func (ml *MessageLog) Follow(world *ecs.World) {
	em := world.GetEventManager()
	em.Subscribe(EventAudioStarted, func(e ecs.Event) {
		ev := e.(AudioStartedEvent)
		ml.Addf("playing %s", filepath.Base(ev.Path))
	})
	em.Subscribe(EventAudioError, func(e ecs.Event) {
		ev := e.(AudioErrorEvent)
		ml.Addf("audio error: %v", ev.Err)
	})
	em.Subscribe(EventShaderError, func(e ecs.Event) {
		ev := e.(ShaderErrorEvent)
		ml.Addf("shader %s: %v", filepath.Base(ev.Shader), ev.Err)
	})
}
