package components

import (
	"wlengine/ecs"
)

// Component types of the engine. Capacity hints preallocate query results.
var (
	Name      = ecs.RegisterComponentType("Name", 64)
	Transform = ecs.RegisterComponentType("Transform", 64)
	Material  = ecs.RegisterComponentType("Material", 32)
	Audio     = ecs.RegisterComponentType("Audio", 32)
)
