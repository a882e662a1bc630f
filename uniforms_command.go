package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"wlengine/graphics"
)

// NewUniformsCommand creates the command listing the uniforms of a Kage shader
func NewUniformsCommand(rootOpts *RootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "uniforms <shader.kage>",
		Short: "List the uniforms a Kage shader declares and their locations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := graphics.LoadKageBackend(args[0])
			if err != nil {
				return err
			}
			rootOpts.Logger.Debug("parsed shader", "path", args[0], "uniforms", len(backend.Declarations()))

			if asJSON {
				return writeUniformsJSON(cmd.OutOrStdout(), backend.Declarations())
			}
			writeUniformsTable(cmd.OutOrStdout(), backend.Declarations())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func writeUniformsTable(w io.Writer, decls []graphics.UniformDecl) {
	fmt.Fprintf(w, "%3s  %-16s %s\n", "LOC", "NAME", "TYPE")
	for _, decl := range decls {
		fmt.Fprintf(w, "%3d  %-16s %s\n", decl.Location, decl.Name, decl.Type)
	}
}

type uniformJSON struct {
	Location graphics.Location `json:"location"`
	Name     string            `json:"name"`
	Type     string            `json:"type"`
}

func writeUniformsJSON(w io.Writer, decls []graphics.UniformDecl) error {
	out := make([]uniformJSON, 0, len(decls))
	for _, decl := range decls {
		out = append(out, uniformJSON{Location: decl.Location, Name: decl.Name, Type: decl.Type})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
