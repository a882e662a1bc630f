package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"wlengine/data"
)

// NewRunCommand creates the command that opens a window and runs a scene
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	var scenePath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open a window and render a scene",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.Config
			if scenePath == "" {
				scenePath = cfg.Scene
			}

			var scene *data.Scene
			if scenePath != "" {
				loaded, err := data.LoadScene(scenePath)
				if err != nil {
					return err
				}
				scene = loaded
			}

			game, err := NewGame(cfg, scene, rootOpts.Logger)
			if err != nil {
				return err
			}
			defer game.Close()

			ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
			ebiten.SetWindowTitle(cfg.Window.Title)
			ebiten.SetFullscreen(cfg.Window.Fullscreen)
			return ebiten.RunGame(game)
		},
	}

	cmd.Flags().StringVarP(&scenePath, "scene", "s", "", "scene file (overrides the config)")
	return cmd
}
