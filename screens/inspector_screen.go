package screens

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"wlengine/components"
	"wlengine/ecs"
	"wlengine/graphics"
)

const (
	inspectorWidth  = 560
	inspectorHeight = 360
	lineHeight      = 16
	headerLines     = 2
)

// InspectorScreen lists the shader parameters of every material entity.
// Arrow keys scroll, Tab moves to the next entity, Escape closes it.
type InspectorScreen struct {
	world        *ecs.World
	selected     int
	scrollOffset int
	background   color.Color
}

// NewInspectorScreen creates an inspector over the world's materials
func NewInspectorScreen(world *ecs.World) *InspectorScreen {
	return &InspectorScreen{
		world:      world,
		background: color.RGBA{0, 0, 0, 220},
	}
}

// Update handles input for the inspector
func (s *InspectorScreen) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ErrCloseScreen
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		s.nextEntity()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && s.scrollOffset > 0 {
		s.scrollOffset--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && s.scrollOffset < len(s.Lines())-1 {
		s.scrollOffset++
	}
	return nil
}

func (s *InspectorScreen) nextEntity() {
	count := len(s.world.Query(components.Material))
	if count == 0 {
		s.selected = 0
		return
	}
	s.selected = (s.selected + 1) % count
	s.scrollOffset = 0
}

// Lines returns the text of the inspector for the selected entity
func (s *InspectorScreen) Lines() []string {
	entities := s.world.Query(components.Material)
	if len(entities) == 0 {
		return []string{"no materials"}
	}
	if s.selected >= len(entities) {
		s.selected = 0
	}

	entity := entities[s.selected]
	comp, _ := s.world.GetComponent(entity.ID, components.Material)
	material := comp.(*components.MaterialComponent)

	title := fmt.Sprintf("entity %d (%d/%d)", entity.ID, s.selected+1, len(entities))
	if nameComp, ok := s.world.GetComponent(entity.ID, components.Name); ok {
		title = fmt.Sprintf("%s %s", nameComp.(*components.NameComponent).Name, title)
	}

	lines := []string{title, "shader " + material.Shader}
	return append(lines, ParameterLines(material.Parameters)...)
}

// ParameterLines formats one line per parameter, sorted by name
func ParameterLines(params *graphics.ShaderParameters) []string {
	lines := make([]string, 0, params.Len())
	for _, name := range params.Names() {
		u, _ := params.Lookup(name)
		loc := "-"
		if u.Location() != graphics.InvalidLocation {
			loc = fmt.Sprint(u.Location())
		}
		lines = append(lines, fmt.Sprintf("%-16s %-6s %3s  %v", name, u.Kind(), loc, u.Get()))
	}
	return lines
}

// Draw renders the inspector centered on the screen
func (s *InspectorScreen) Draw(screen *ebiten.Image) {
	bounds := screen.Bounds()
	x := float64(bounds.Dx()-inspectorWidth) / 2
	y := float64(bounds.Dy()-inspectorHeight) / 2

	ebitenutil.DrawRect(screen, x, y, inspectorWidth, inspectorHeight, s.background)
	frame := color.White
	ebitenutil.DrawRect(screen, x, y, inspectorWidth, 1, frame)
	ebitenutil.DrawRect(screen, x, y+inspectorHeight-1, inspectorWidth, 1, frame)

	lines := s.Lines()
	maxLines := inspectorHeight/lineHeight - headerLines - 1
	for i, line := range lines {
		row := i
		if i >= headerLines {
			// Header stays put, parameters scroll
			row = i - s.scrollOffset
			if row < headerLines || row >= maxLines+headerLines {
				continue
			}
		}
		ebitenutil.DebugPrintAt(screen, line, int(x)+10, int(y)+8+row*lineHeight)
	}

	ebitenutil.DebugPrintAt(screen, "Up/Down: Scroll  Tab: Next  Esc: Close", int(x)+10, int(y)+inspectorHeight-lineHeight-4)
}
