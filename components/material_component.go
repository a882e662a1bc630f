package components

import (
	"wlengine/graphics"
)

// MaterialComponent binds a shader program to the parameters it is drawn with
type MaterialComponent struct {
	// Shader is the path of the Kage program
	Shader     string
	Parameters *graphics.ShaderParameters
}

// NewMaterialComponent creates a material with an empty parameter store
func NewMaterialComponent(shader string) *MaterialComponent {
	return &MaterialComponent{
		Shader:     shader,
		Parameters: graphics.NewShaderParameters(),
	}
}

// Clone returns a material with its own deep copy of the parameters
func (m *MaterialComponent) Clone() *MaterialComponent {
	return &MaterialComponent{
		Shader:     m.Shader,
		Parameters: m.Parameters.Clone(),
	}
}
