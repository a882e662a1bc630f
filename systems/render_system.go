package systems

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"wlengine/components"
	"wlengine/ecs"
	"wlengine/graphics"
	"wlengine/logging"
)

// Built-in parameters the render system keeps up to date when a material declares them
const (
	TimeParameter  = "Time"
	FrameParameter = "Frame"
)

// drawCall is one material quad ready to be drawn
type drawCall struct {
	entityID ecs.EntityID
	backend  *graphics.KageBackend
	shader   *ebiten.Shader
	x, y     float64
	width    int
	height   int
}

// RenderSystem draws every entity with a Material and a Transform using the
// material's Kage shader and parameters
type RenderSystem struct {
	backends   map[string]*graphics.KageBackend
	bound      map[ecs.EntityID]binding
	failed     map[string]error
	reported   map[ecs.EntityID]failure
	logger     logging.Logger
	messageLog *MessageLog
	elapsed    float64
	frame      int32
	background color.Color
}

// binding remembers which program an entity's parameters were resolved against
type binding struct {
	backend    *graphics.KageBackend
	generation int
}

// failure identifies an error already reported for an entity. The same error
// is not reported again until the shader changes.
type failure struct {
	shader     string
	generation int
}

// NewRenderSystem creates a new rendering system
func NewRenderSystem(logger logging.Logger, messageLog *MessageLog) *RenderSystem {
	if logger == nil {
		logger = logging.Discard()
	}
	return &RenderSystem{
		backends:   make(map[string]*graphics.KageBackend),
		bound:      make(map[ecs.EntityID]binding),
		failed:     make(map[string]error),
		reported:   make(map[ecs.EntityID]failure),
		logger:     logger,
		messageLog: messageLog,
		background: color.RGBA{0, 0, 0, 255},
	}
}

// RegisterShader adds a program under a name, or replaces the source of an
// existing one. Materials using it re-resolve their locations on the next frame.
func (s *RenderSystem) RegisterShader(name string, src []byte) error {
	delete(s.failed, name)
	if backend, exists := s.backends[name]; exists {
		return backend.SetSource(src)
	}

	backend, err := graphics.NewKageBackend(name, src)
	if err != nil {
		return err
	}
	s.backends[name] = backend
	return nil
}

// Backend returns the backend for a shader, loading it from disk on first use
func (s *RenderSystem) Backend(name string) (*graphics.KageBackend, error) {
	if backend, exists := s.backends[name]; exists {
		return backend, nil
	}
	if err, failed := s.failed[name]; failed {
		return nil, err
	}

	backend, err := graphics.LoadKageBackend(name)
	if err != nil {
		s.failed[name] = err
		s.logger.Error("failed to load shader", "shader", name, "err", err)
		return nil, err
	}
	s.backends[name] = backend
	return backend, nil
}

// Update advances the built-in Time and Frame parameters of every material
func (s *RenderSystem) Update(world *ecs.World, dt float64) {
	s.elapsed += dt
	s.frame++

	for _, entity := range world.Query(components.Material) {
		comp, _ := world.GetComponent(entity.ID, components.Material)
		params := comp.(*components.MaterialComponent).Parameters

		if _, err := graphics.Get[float32](params, TimeParameter); err == nil {
			graphics.Set(params, TimeParameter, float32(s.elapsed))
		}
		if _, err := graphics.Get[int32](params, FrameParameter); err == nil {
			graphics.Set(params, FrameParameter, s.frame)
		}
	}

	for entityID := range s.bound {
		if !world.HasComponent(entityID, components.Material) {
			delete(s.bound, entityID)
		}
	}
	for entityID := range s.reported {
		if !world.HasComponent(entityID, components.Material) {
			delete(s.reported, entityID)
		}
	}
}

// Reload re-reads every shader from disk, including those whose last load
// failed. Shaders registered from memory that have no file keep their
// current program.
func (s *RenderSystem) Reload() error {
	names := s.ShaderNames()
	for name := range s.failed {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		src, err := os.ReadFile(name)
		if err != nil {
			err = fmt.Errorf("failed to read shader: %w", err)
			if _, loaded := s.backends[name]; !loaded {
				s.failed[name] = err
			}
			s.logger.Warn("shader reload failed", "shader", name, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		if err := s.RegisterShader(name, src); err != nil {
			if _, loaded := s.backends[name]; !loaded {
				s.failed[name] = err
			}
			s.logger.Warn("shader reload failed", "shader", name, "err", err)
			errs = append(errs, err)
			continue
		}
		s.logger.Info("shader reloaded", "shader", name)
	}
	return errors.Join(errs...)
}

// prepare uploads the parameters of one material and returns its draw call
func (s *RenderSystem) prepare(world *ecs.World, entityID ecs.EntityID) (drawCall, error) {
	matComp, _ := world.GetComponent(entityID, components.Material)
	transformComp, _ := world.GetComponent(entityID, components.Transform)
	material := matComp.(*components.MaterialComponent)
	transform := transformComp.(*components.TransformComponent)

	backend, err := s.Backend(material.Shader)
	if err != nil {
		return drawCall{}, err
	}

	// Resolve locations again when the entity moved to another program or it was relinked
	b := s.bound[entityID]
	if b.backend != backend || b.generation != backend.Generation() {
		material.Parameters.UpdateParameters(backend)
		s.bound[entityID] = binding{backend: backend, generation: backend.Generation()}
	}

	if err := material.Parameters.Use(backend); err != nil {
		return drawCall{}, err
	}

	width, height := transform.Size()
	return drawCall{
		entityID: entityID,
		backend:  backend,
		x:        transform.X,
		y:        transform.Y,
		width:    width,
		height:   height,
	}, nil
}

// reportError logs and emits an error once per entity and shader generation
func (s *RenderSystem) reportError(world *ecs.World, entityID ecs.EntityID, shader string, err error) {
	key := failure{shader: shader, generation: -1}
	if backend, loaded := s.backends[shader]; loaded {
		key.generation = backend.Generation()
	}
	if prev, seen := s.reported[entityID]; seen && prev == key {
		return
	}
	s.reported[entityID] = key

	s.logger.Warn("material skipped", "entity", entityID, "shader", shader, "err", err)
	world.EmitEvent(ShaderErrorEvent{EntityID: entityID, Shader: shader, Err: err})
}

// drawCalls prepares every drawable material. Materials that fail are
// reported and skipped.
func (s *RenderSystem) drawCalls(world *ecs.World) []drawCall {
	entities := world.Query(components.Material, components.Transform)
	calls := make([]drawCall, 0, len(entities))
	for _, entity := range entities {
		call, err := s.prepare(world, entity.ID)
		if err != nil {
			s.reportError(world, entity.ID, s.shaderName(world, entity.ID), err)
			continue
		}

		shader, err := call.backend.Shader()
		if err != nil {
			s.reportError(world, entity.ID, call.backend.Name(), err)
			continue
		}
		call.shader = shader

		delete(s.reported, entity.ID)
		calls = append(calls, call)
	}
	return calls
}

// Draw renders all materials, then the message overlay
func (s *RenderSystem) Draw(world *ecs.World, screen *ebiten.Image) {
	screen.Fill(s.background)

	for _, call := range s.drawCalls(world) {
		opts := &ebiten.DrawRectShaderOptions{}
		opts.GeoM.Translate(call.x, call.y)
		opts.Uniforms = call.backend.Uniforms()
		screen.DrawRectShader(call.width, call.height, call.shader, opts)
	}

	s.drawMessages(screen)
}

func (s *RenderSystem) shaderName(world *ecs.World, entityID ecs.EntityID) string {
	if comp, exists := world.GetComponent(entityID, components.Material); exists {
		return comp.(*components.MaterialComponent).Shader
	}
	return ""
}

// drawMessages prints the most recent log messages in the bottom-left corner
func (s *RenderSystem) drawMessages(screen *ebiten.Image) {
	if s.messageLog == nil {
		return
	}
	const lineHeight = 16
	messages := s.messageLog.RecentMessages(5)
	height := screen.Bounds().Dy()
	for i, msg := range messages {
		ebitenutil.DebugPrintAt(screen, msg, 4, height-lineHeight*(i+1)-4)
	}
}

// ShaderNames returns the loaded shader names in sorted order
func (s *RenderSystem) ShaderNames() []string {
	names := make([]string, 0, len(s.backends))
	for name := range s.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stats describes the render system state for debug output
func (s *RenderSystem) Stats() string {
	return fmt.Sprintf("shaders=%d bound=%d frame=%d", len(s.backends), len(s.bound), s.frame)
}
