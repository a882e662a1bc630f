// Package graphics holds the typed shader parameter store and the
// rendering backends it uploads to.
package graphics

import (
	"errors"
	"fmt"
	"sort"
)

// ShaderParameters maps uniform names to typed values and their binding locations.
// The zero value is ready to use.
type ShaderParameters struct {
	parameters map[string]Uniform
}

// NewShaderParameters creates an empty parameter store
func NewShaderParameters() *ShaderParameters {
	return &ShaderParameters{
		parameters: make(map[string]Uniform),
	}
}

// Add inserts a new parameter. If the name is taken the existing parameter
// is kept and ErrDuplicateParameter is returned.
func Add[T Value](s *ShaderParameters, name string, val T) error {
	return s.insert(newUniform(name, val))
}

// Set overwrites the value of an existing parameter. The value must have the
// type the parameter was added with.
func Set[T Value](s *ShaderParameters, name string, val T) error {
	return s.SetValue(name, val)
}

// Get returns the value of a parameter as T
func Get[T Value](s *ShaderParameters, name string) (T, error) {
	var zero T

	uniform, exists := s.Lookup(name)
	if !exists {
		return zero, fmt.Errorf("%w: %q", ErrParameterNotFound, name)
	}

	typed, ok := uniform.(*typedUniform[T])
	if !ok {
		return zero, fmt.Errorf("%w: %q holds %s, requested %T", ErrTypeMismatch, name, uniform.Kind(), zero)
	}
	return typed.val, nil
}

// AddValue inserts a parameter whose type is chosen from the runtime type of val.
// float64 and int are narrowed to float32 and int32.
func (s *ShaderParameters) AddValue(name string, val any) error {
	uniform, err := newUniformFromValue(name, val)
	if err != nil {
		return err
	}
	return s.insert(uniform)
}

// SetValue overwrites the value of an existing parameter.
// float64 and int are narrowed like in AddValue.
func (s *ShaderParameters) SetValue(name string, val any) error {
	uniform, exists := s.Lookup(name)
	if !exists {
		return fmt.Errorf("%w: %q", ErrParameterNotFound, name)
	}
	return uniform.Set(narrow(val))
}

func (s *ShaderParameters) insert(uniform Uniform) error {
	if s.parameters == nil {
		s.parameters = make(map[string]Uniform)
	}
	if _, exists := s.parameters[uniform.Name()]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateParameter, uniform.Name())
	}
	s.parameters[uniform.Name()] = uniform
	return nil
}

// Lookup returns the parameter with the given name
func (s *ShaderParameters) Lookup(name string) (Uniform, bool) {
	uniform, exists := s.parameters[name]
	return uniform, exists
}

// Has checks if a parameter exists
func (s *ShaderParameters) Has(name string) bool {
	_, exists := s.parameters[name]
	return exists
}

// Remove deletes a parameter and reports whether it existed
func (s *ShaderParameters) Remove(name string) bool {
	if _, exists := s.parameters[name]; !exists {
		return false
	}
	delete(s.parameters, name)
	return true
}

// Len returns the number of parameters
func (s *ShaderParameters) Len() int {
	return len(s.parameters)
}

// Names returns the parameter names in sorted order
func (s *ShaderParameters) Names() []string {
	names := make([]string, 0, len(s.parameters))
	for name := range s.parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UpdateParameters refreshes the binding location of every parameter,
// e.g. after the shader program was (re)linked.
func (s *ShaderParameters) UpdateParameters(resolver LocationResolver) {
	for name, uniform := range s.parameters {
		uniform.updateLocation(resolver.UniformLocation(name))
	}
}

// Use uploads every parameter at its bound location. Every parameter is
// attempted; failures are joined into the returned error.
func (s *ShaderParameters) Use(uploader Uploader) error {
	var errs []error
	for _, name := range s.Names() {
		if err := s.parameters[name].Use(uploader); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Clone returns a deep copy of the store
func (s *ShaderParameters) Clone() *ShaderParameters {
	clone := &ShaderParameters{
		parameters: make(map[string]Uniform, len(s.parameters)),
	}
	for name, uniform := range s.parameters {
		clone.parameters[name] = uniform.Clone()
	}
	return clone
}

// CopyFrom replaces the contents of s with a deep copy of other
func (s *ShaderParameters) CopyFrom(other *ShaderParameters) {
	if s == other {
		return
	}
	s.parameters = other.Clone().parameters
}
