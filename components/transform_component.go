package components

// TransformComponent places an entity's quad on screen, in pixels
type TransformComponent struct {
	X, Y          float64
	Width, Height float64
}

// NewTransformComponent creates a transform covering the given rectangle
func NewTransformComponent(x, y, width, height float64) *TransformComponent {
	return &TransformComponent{
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
	}
}

// Size returns the quad size rounded to whole pixels
func (t *TransformComponent) Size() (int, int) {
	return int(t.Width + 0.5), int(t.Height + 0.5)
}
