package ecs

import (
	"fmt"
	"sort"
)

// ComponentID is a unique identifier for component types
type ComponentID uint

// Component is the base interface for all components
type Component interface{}

// ComponentMap stores components by their type ID
type ComponentMap map[ComponentID]Component

// ComponentType describes a registered component type
type ComponentType struct {
	ID   ComponentID
	Name string
	// CapacityHint is the expected number of live instances. Queries led by
	// this type preallocate their result to it.
	CapacityHint int
}

// componentTypes is the process-wide component type registry
var componentTypes = struct {
	byName map[string]ComponentType
	byID   []ComponentType
}{
	byName: make(map[string]ComponentType),
}

// RegisterComponentType binds a component type name to an ID. Registering a
// name again returns the existing ID. Component packages call it from
// package-level declarations.
func RegisterComponentType(name string, capacityHint int) ComponentID {
	if name == "" {
		panic("ecs: component type name must not be empty")
	}
	if existing, ok := componentTypes.byName[name]; ok {
		return existing.ID
	}

	ct := ComponentType{
		ID:           ComponentID(len(componentTypes.byID)),
		Name:         name,
		CapacityHint: capacityHint,
	}
	componentTypes.byName[name] = ct
	componentTypes.byID = append(componentTypes.byID, ct)
	return ct.ID
}

// LookupComponentType finds a registered component type by name
func LookupComponentType(name string) (ComponentType, bool) {
	ct, ok := componentTypes.byName[name]
	return ct, ok
}

// ComponentTypeName returns the registered name of a component ID
func ComponentTypeName(id ComponentID) string {
	if int(id) < len(componentTypes.byID) {
		return componentTypes.byID[id].Name
	}
	return fmt.Sprintf("Component(%d)", id)
}

func capacityHint(id ComponentID) int {
	if int(id) < len(componentTypes.byID) {
		return componentTypes.byID[id].CapacityHint
	}
	return 0
}

// ComponentTypes returns all registered component types sorted by name
func ComponentTypes() []ComponentType {
	types := make([]ComponentType, len(componentTypes.byID))
	copy(types, componentTypes.byID)
	sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })
	return types
}
