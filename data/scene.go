package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"wlengine/components"
	"wlengine/ecs"
	"wlengine/graphics"
)

// UniformValue is a typed uniform value in a scene file, e.g.
// {type: vec4, value: [1, 0, 0, 1]}
type UniformValue struct {
	Type  string `json:"type" yaml:"type"`
	Value any    `json:"value" yaml:"value"`
}

// MaterialTemplate describes a shader and its default parameters
type MaterialTemplate struct {
	Shader   string                  `json:"shader" yaml:"shader"`
	Uniforms map[string]UniformValue `json:"uniforms" yaml:"uniforms"`
}

// AudioTemplate describes an Audio component and the sounds it starts with
type AudioTemplate struct {
	Volume *float64 `json:"volume" yaml:"volume"`
	Loop   bool     `json:"loop" yaml:"loop"`
	Play   []string `json:"play" yaml:"play"`
}

// EntityTemplate describes one entity of a scene
type EntityTemplate struct {
	Name      string                  `json:"name" yaml:"name"`
	Tags      []string                `json:"tags" yaml:"tags"`
	Transform map[string]any          `json:"transform" yaml:"transform"`
	Material  string                  `json:"material" yaml:"material"`
	Uniforms  map[string]UniformValue `json:"uniforms" yaml:"uniforms"` // Overrides of the material defaults
	Audio     *AudioTemplate          `json:"audio" yaml:"audio"`
}

// Scene is a set of materials and the entities that use them
type Scene struct {
	Materials map[string]*MaterialTemplate `json:"materials" yaml:"materials"`
	Entities  []EntityTemplate             `json:"entities" yaml:"entities"`

	// Dir is the directory relative paths are resolved against
	Dir string `json:"-" yaml:"-"`

	materials map[string]*components.MaterialComponent
}

// LoadScene reads a scene file. Files ending in .json are decoded as JSON,
// everything else as YAML.
func LoadScene(path string) (*Scene, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	var scene Scene
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(content, &scene)
	} else {
		err = yaml.Unmarshal(content, &scene)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse scene %s: %w", path, err)
	}

	scene.Dir = filepath.Dir(path)
	if err := scene.Compile(); err != nil {
		return nil, fmt.Errorf("invalid scene %s: %w", path, err)
	}
	return &scene, nil
}

// Compile builds the material parameter stores and checks entity references
func (s *Scene) Compile() error {
	s.materials = make(map[string]*components.MaterialComponent, len(s.Materials))

	names := make([]string, 0, len(s.Materials))
	for name := range s.Materials {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		tmpl := s.Materials[name]
		if tmpl == nil || tmpl.Shader == "" {
			return fmt.Errorf("material %q has no shader", name)
		}

		material := components.NewMaterialComponent(s.resolve(tmpl.Shader))
		for _, uniformName := range sortedKeys(tmpl.Uniforms) {
			value, err := tmpl.Uniforms[uniformName].Decode()
			if err != nil {
				return fmt.Errorf("material %q uniform %q: %w", name, uniformName, err)
			}
			if err := material.Parameters.AddValue(uniformName, value); err != nil {
				return fmt.Errorf("material %q: %w", name, err)
			}
		}
		s.materials[name] = material
	}

	for i, entity := range s.Entities {
		if entity.Material == "" {
			if len(entity.Uniforms) > 0 {
				return fmt.Errorf("entity %d (%s) overrides uniforms without a material", i, entity.Name)
			}
			continue
		}
		if _, ok := s.materials[entity.Material]; !ok {
			return fmt.Errorf("entity %d (%s) uses unknown material %q", i, entity.Name, entity.Material)
		}
	}
	return nil
}

// Material returns a copy of a compiled material
func (s *Scene) Material(name string) (*components.MaterialComponent, bool) {
	material, ok := s.materials[name]
	if !ok {
		return nil, false
	}
	return material.Clone(), true
}

// Spawn creates the scene's entities in the world. Every entity gets its
// own copy of its material's parameters.
func (s *Scene) Spawn(world *ecs.World) ([]*ecs.Entity, error) {
	if s.materials == nil {
		if err := s.Compile(); err != nil {
			return nil, err
		}
	}

	entities := make([]*ecs.Entity, 0, len(s.Entities))
	for i, tmpl := range s.Entities {
		entity, err := s.spawnEntity(world, tmpl)
		if err != nil {
			return entities, fmt.Errorf("entity %d (%s): %w", i, tmpl.Name, err)
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

func (s *Scene) spawnEntity(world *ecs.World, tmpl EntityTemplate) (*ecs.Entity, error) {
	entity := world.CreateEntity()
	for _, tag := range tmpl.Tags {
		world.TagEntity(entity.ID, tag)
	}

	if tmpl.Name != "" {
		world.AddComponent(entity.ID, components.Name, components.NewNameComponent(tmpl.Name))
	}

	if tmpl.Transform != nil {
		transform := components.NewTransformComponent(0, 0, 0, 0)
		for _, key := range sortedKeys(tmpl.Transform) {
			if err := components.SetComponentProperty(transform, exportedName(key), tmpl.Transform[key]); err != nil {
				return entity, fmt.Errorf("transform: %w", err)
			}
		}
		world.AddComponent(entity.ID, components.Transform, transform)
	}

	if tmpl.Material != "" {
		material, _ := s.Material(tmpl.Material)
		for _, name := range sortedKeys(tmpl.Uniforms) {
			value, err := tmpl.Uniforms[name].Decode()
			if err != nil {
				return entity, fmt.Errorf("uniform %q: %w", name, err)
			}
			if err := material.Parameters.SetValue(name, value); err != nil {
				return entity, err
			}
		}
		world.AddComponent(entity.ID, components.Material, material)
	}

	if tmpl.Audio != nil {
		audio := components.NewAudioComponent()
		if tmpl.Audio.Volume != nil {
			audio.SetVolume(*tmpl.Audio.Volume)
		}
		audio.Loop = tmpl.Audio.Loop
		for _, file := range tmpl.Audio.Play {
			audio.Play(s.resolve(file))
		}
		world.AddComponent(entity.ID, components.Audio, audio)
	}

	return entity, nil
}

// Decode converts the scene value into a graphics uniform value
func (u UniformValue) Decode() (any, error) {
	kind, ok := graphics.ParseKind(u.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q", graphics.ErrUnsupportedType, u.Type)
	}

	numbers, err := toFloats(u.Value)
	if err != nil {
		return nil, err
	}
	return graphics.FromFloats(kind, numbers)
}

func toFloats(value any) ([]float64, error) {
	switch v := value.(type) {
	case []any:
		numbers := make([]float64, 0, len(v))
		for _, item := range v {
			n, err := toFloat(item)
			if err != nil {
				return nil, err
			}
			numbers = append(numbers, n)
		}
		return numbers, nil
	case nil:
		return nil, fmt.Errorf("missing value")
	}

	n, err := toFloat(value)
	if err != nil {
		return nil, err
	}
	return []float64{n}, nil
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	}
	return 0, fmt.Errorf("expected a number, got %T", value)
}

func (s *Scene) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || s.Dir == "" {
		return path
	}
	return filepath.Join(s.Dir, path)
}

// exportedName maps scene keys such as "width" to field names such as "Width"
func exportedName(key string) string {
	if key == "" {
		return key
	}
	r := []rune(key)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
