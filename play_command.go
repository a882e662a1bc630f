package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"wlengine/components"
	"wlengine/ecs"
	"wlengine/systems"
)

// NewPlayCommand creates the command that plays a sound file through an Audio component
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	var volume float64
	var loop bool

	cmd := &cobra.Command{
		Use:   "play <file>",
		Short: "Play an mp3, ogg or wav file until it ends",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			mixer, err := systems.NewEbitenMixer(rootOpts.Config.Audio.SampleRate)
			if err != nil {
				return err
			}
			audioSystem := systems.NewAudioSystem(mixer, rootOpts.Logger)
			audioSystem.SetVolume(rootOpts.Config.Audio.Volume)

			world := ecs.NewWorld()
			world.AddSystem(audioSystem)
			defer world.Close()

			entity := world.CreateEntity()
			audio := components.NewAudioComponent()
			audio.SetVolume(volume)
			audio.Loop = loop
			world.AddComponent(entity.ID, components.Audio, audio)

			fmt.Fprintf(cmd.OutOrStdout(), "playing %s\n", args[0])
			audio.Play(args[0])
			return playUntilDone(ctx, world, audioSystem, entity.ID)
		},
	}

	cmd.Flags().Float64Var(&volume, "volume", 1.0, "volume between 0 and 1")
	cmd.Flags().BoolVar(&loop, "loop", false, "repeat until interrupted")
	return cmd
}

// playUntilDone ticks the world at 60 Hz until the entity stops playing
func playUntilDone(ctx context.Context, world *ecs.World, audioSystem *systems.AudioSystem, entityID ecs.EntityID) error {
	var playErr error
	world.GetEventManager().Subscribe(systems.EventAudioError, func(e ecs.Event) {
		playErr = e.(systems.AudioErrorEvent).Err
	})

	const dt = time.Second / 60
	ticker := time.NewTicker(dt)
	defer ticker.Stop()

	world.Update(dt.Seconds())
	for audioSystem.ActiveVoices(entityID) > 0 {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			world.Update(dt.Seconds())
		}
	}
	return playErr
}
