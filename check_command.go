package main

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"wlengine/data"
	"wlengine/graphics"
)

// NewCheckCommand creates the command that binds every material of a scene
// against its shader without opening a window
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <scene>",
		Short: "Resolve and upload every material parameter of a scene against its shader",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scene, err := data.LoadScene(args[0])
			if err != nil {
				return err
			}
			return checkScene(cmd.OutOrStdout(), scene)
		},
	}
}

var errCheckFailed = errors.New("scene check failed")

func checkScene(w io.Writer, scene *data.Scene) error {
	names := make([]string, 0, len(scene.Materials))
	for name := range scene.Materials {
		names = append(names, name)
	}
	sort.Strings(names)

	failed := false
	for _, name := range names {
		material, _ := scene.Material(name)
		backend, err := graphics.LoadKageBackend(material.Shader)
		if err != nil {
			fmt.Fprintf(w, "material %s: %v\n", name, err)
			failed = true
			continue
		}

		material.Parameters.UpdateParameters(backend)
		fmt.Fprintf(w, "material %s:\n", name)
		for _, paramName := range material.Parameters.Names() {
			uniform, _ := material.Parameters.Lookup(paramName)
			if uniform.Location() == graphics.InvalidLocation {
				fmt.Fprintf(w, "  %-16s %-6s unbound\n", paramName, uniform.Kind())
				continue
			}
			fmt.Fprintf(w, "  %-16s %-6s -> %d\n", paramName, uniform.Kind(), uniform.Location())
		}

		if err := material.Parameters.Use(backend); err != nil {
			fmt.Fprintf(w, "  error: %v\n", err)
			failed = true
		}
	}

	if failed {
		return errCheckFailed
	}
	return nil
}
