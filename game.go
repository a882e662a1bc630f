package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"wlengine/config"
	"wlengine/data"
	"wlengine/ecs"
	"wlengine/logging"
	"wlengine/screens"
	"wlengine/systems"
)

// Game implements ebiten.Game interface.
type Game struct {
	cfg          *config.Config
	logger       logging.Logger
	world        *ecs.World
	renderSystem *systems.RenderSystem
	audioSystem  *systems.AudioSystem
	messageLog   *systems.MessageLog
	screenStack  *screens.ScreenStack
	showOverlay  bool
}

// NewGame creates the world, its systems and the scene's entities
func NewGame(cfg *config.Config, scene *data.Scene, logger logging.Logger) (*Game, error) {
	world := ecs.NewWorld()

	messageLog := systems.NewMessageLog(config.MessageLogSize)
	messageLog.Follow(world)

	mixer, err := systems.NewEbitenMixer(cfg.Audio.SampleRate)
	if err != nil {
		return nil, err
	}
	audioSystem := systems.NewAudioSystem(mixer, logger)
	audioSystem.SetVolume(cfg.Audio.Volume)
	renderSystem := systems.NewRenderSystem(logger, messageLog)

	// The render system runs separately from Draw; only the audio system ticks with the world
	world.AddSystem(audioSystem)

	game := &Game{
		cfg:          cfg,
		logger:       logger,
		world:        world,
		renderSystem: renderSystem,
		audioSystem:  audioSystem,
		messageLog:   messageLog,
		screenStack:  screens.NewScreenStack(),
		showOverlay:  true,
	}

	if scene != nil {
		entities, err := scene.Spawn(world)
		if err != nil {
			return nil, fmt.Errorf("failed to spawn scene: %w", err)
		}
		logger.Info("scene loaded", "entities", len(entities), "materials", len(scene.Materials))
	}

	if cfg.Audio.Music != "" {
		if err := audioSystem.PlayBGM(cfg.Audio.Music); err != nil {
			// Music is optional, keep running without it
			logger.Warn("background music unavailable", "path", cfg.Audio.Music, "err", err)
			messageLog.Addf("music unavailable: %v", err)
		}
	}

	messageLog.Add("F1: overlay  F2: inspector  F5: reload shaders  M: music")
	return game, nil
}

// Update updates the game state.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) && g.screenStack.Len() == 0 {
		g.screenStack.Push(screens.NewInspectorScreen(g.world))
	} else if err := g.screenStack.Update(); err != nil {
		return err
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.showOverlay = !g.showOverlay
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.reloadShaders()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		if g.audioSystem.IsBGMPlaying() {
			g.audioSystem.PauseBGM()
		} else {
			g.audioSystem.ResumeBGM()
		}
	}

	dt := 1.0 / float64(ebiten.TPS())
	g.world.Update(dt)
	g.renderSystem.Update(g.world, dt)
	return nil
}

// reloadShaders re-reads every shader from disk
func (g *Game) reloadShaders() {
	if err := g.renderSystem.Reload(); err != nil {
		g.messageLog.Addf("reload: %v", err)
		return
	}
	g.messageLog.Add("shaders reloaded")
}

// Draw draws the game screen.
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderSystem.Draw(g.world, screen)
	g.screenStack.Draw(screen)

	if g.showOverlay {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f %s", ebiten.ActualFPS(), g.renderSystem.Stats()))
	}
}

// Layout implements ebiten.Game's Layout.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Window.ScreenWidth, g.cfg.Window.ScreenHeight
}

// Close stops all audio
func (g *Game) Close() error {
	return g.world.Close()
}
