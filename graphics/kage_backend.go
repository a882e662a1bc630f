package graphics

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/hajimehoshi/ebiten/v2"
)

var (
	kageBlockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	kageLineComment  = regexp.MustCompile(`//[^\n]*`)
	kageVarBlock     = regexp.MustCompile(`^var\s*\($`)
	kageVarLine      = regexp.MustCompile(`^var\s+(.+)$`)
	kageDecl         = regexp.MustCompile(`^([A-Za-z_]\w*(?:\s*,\s*[A-Za-z_]\w*)*)\s+(\S+)$`)
	kageArrayType    = regexp.MustCompile(`^\[(\d+)\](\w+)$`)
)

// newShader compiles Kage source. Tests replace it to avoid the GPU.
var newShader = ebiten.NewShader

// kageTypeKinds lists the value kinds accepted for each Kage uniform type
var kageTypeKinds = map[string][]Kind{
	"float": {KindFloat},
	"int":   {KindInt},
	"vec2":  {KindVec2},
	"vec3":  {KindVec3},
	"vec4":  {KindVec4, KindRGBA},
	"ivec2": {KindIVec2},
	"ivec3": {KindIVec3},
	"ivec4": {KindIVec4},
	"mat2":  {KindMat2},
	"mat3":  {KindMat3},
	"mat4":  {KindMat4},
}

// UniformDecl is a uniform variable declared by a Kage shader
type UniformDecl struct {
	Name     string
	Type     string
	Location Location
}

// ParseKageUniforms returns the uniform declarations of a Kage program in
// declaration order. Only exported top-level variables are uniforms.
func ParseKageUniforms(src []byte) ([]UniformDecl, error) {
	// Keep the newlines of block comments so line numbers stay right
	src = kageBlockComment.ReplaceAllFunc(src, func(comment []byte) []byte {
		return bytes.Repeat([]byte("\n"), bytes.Count(comment, []byte("\n")))
	})
	src = kageLineComment.ReplaceAll(src, nil)

	var decls []UniformDecl
	depth := 0
	inVarBlock := false

	scanner := bufio.NewScanner(bytes.NewReader(src))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if depth == 0 && line != "" {
			switch {
			case inVarBlock && line == ")":
				inVarBlock = false
			case inVarBlock:
				parsed, err := parseKageDecl(line, lineNo)
				if err != nil {
					return nil, err
				}
				decls = append(decls, parsed...)
			case kageVarBlock.MatchString(line):
				inVarBlock = true
			default:
				if m := kageVarLine.FindStringSubmatch(line); m != nil {
					parsed, err := parseKageDecl(strings.TrimSpace(m[1]), lineNo)
					if err != nil {
						return nil, err
					}
					decls = append(decls, parsed...)
				}
			}
		}

		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if depth < 0 {
			return nil, fmt.Errorf("unbalanced braces at line %d", lineNo)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read shader source: %w", err)
	}
	if inVarBlock {
		return nil, fmt.Errorf("unterminated var block")
	}

	uniforms := decls[:0]
	for _, decl := range decls {
		if !isExported(decl.Name) {
			continue
		}
		decl.Location = Location(len(uniforms))
		uniforms = append(uniforms, decl)
	}
	return uniforms, nil
}

func parseKageDecl(line string, lineNo int) ([]UniformDecl, error) {
	if strings.Contains(line, "=") {
		return nil, fmt.Errorf("line %d: uniform variables cannot be initialized", lineNo)
	}
	m := kageDecl.FindStringSubmatch(line)
	if m == nil {
		return nil, fmt.Errorf("line %d: malformed variable declaration %q", lineNo, line)
	}

	var decls []UniformDecl
	for _, name := range strings.Split(m[1], ",") {
		decls = append(decls, UniformDecl{
			Name: strings.TrimSpace(name),
			Type: m[2],
		})
	}
	return decls, nil
}

func isExported(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}

// KageBackend is a Backend for an ebiten Kage shader. Locations are the
// declaration indexes of the shader's uniforms and uploaded values are
// collected into the map ebiten expects in DrawRectShaderOptions.
type KageBackend struct {
	name       string
	source     []byte
	decls      []UniformDecl
	byName     map[string]Location
	uniforms   map[string]any
	shader     *ebiten.Shader
	compileErr error
	generation int
}

// NewKageBackend parses the uniforms of a Kage program
func NewKageBackend(name string, src []byte) (*KageBackend, error) {
	b := &KageBackend{name: name}
	if err := b.SetSource(src); err != nil {
		return nil, err
	}
	return b, nil
}

// LoadKageBackend reads a Kage program from disk
func LoadKageBackend(path string) (*KageBackend, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read shader: %w", err)
	}
	return NewKageBackend(path, src)
}

// SetSource replaces the program. Locations from before the call are stale
// and callers must run UpdateParameters again; Generation tells them when.
func (b *KageBackend) SetSource(src []byte) error {
	decls, err := ParseKageUniforms(src)
	if err != nil {
		return fmt.Errorf("failed to parse shader %s: %w", b.name, err)
	}

	if b.shader != nil {
		b.shader.Deallocate()
		b.shader = nil
	}
	b.compileErr = nil

	b.source = src
	b.decls = decls
	b.byName = make(map[string]Location, len(decls))
	for _, decl := range decls {
		b.byName[decl.Name] = decl.Location
	}
	b.uniforms = make(map[string]any, len(decls))
	b.generation++
	return nil
}

// Name returns the name the backend was created with
func (b *KageBackend) Name() string {
	return b.name
}

// Generation increases every time the program is replaced
func (b *KageBackend) Generation() int {
	return b.generation
}

// Declarations returns the uniforms declared by the program
func (b *KageBackend) Declarations() []UniformDecl {
	decls := make([]UniformDecl, len(b.decls))
	copy(decls, b.decls)
	return decls
}

// UniformLocation implements LocationResolver
func (b *KageBackend) UniformLocation(name string) Location {
	if loc, ok := b.byName[name]; ok {
		return loc
	}
	return InvalidLocation
}

// SetUniform implements Uploader. Uploads to InvalidLocation are ignored.
func (b *KageBackend) SetUniform(loc Location, value any) error {
	if loc == InvalidLocation {
		return nil
	}
	if loc < 0 || int(loc) >= len(b.decls) {
		return fmt.Errorf("%w: %d in %s", ErrInvalidLocation, loc, b.name)
	}

	decl := b.decls[loc]
	kind := KindOf(value)
	if kind == KindInvalid {
		return fmt.Errorf("%w: %T", ErrUnsupportedType, value)
	}
	if !kageAccepts(decl.Type, kind) {
		return fmt.Errorf("%w: %s is declared %s, got %s", ErrTypeMismatch, decl.Name, decl.Type, kind)
	}

	b.uniforms[decl.Name] = toKageValue(value)
	return nil
}

// Uniforms returns the uploaded values keyed by uniform name
func (b *KageBackend) Uniforms() map[string]any {
	return b.uniforms
}

// Shader compiles the program on first use. A compile failure is kept
// until the source is replaced.
func (b *KageBackend) Shader() (*ebiten.Shader, error) {
	if b.shader != nil {
		return b.shader, nil
	}
	if b.compileErr != nil {
		return nil, b.compileErr
	}
	shader, err := newShader(b.source)
	if err != nil {
		b.compileErr = fmt.Errorf("failed to compile shader %s: %w", b.name, err)
		return nil, b.compileErr
	}
	b.shader = shader
	return shader, nil
}

// kageAccepts reports whether a value of kind can be uploaded to a uniform
// declared with the Kage type typ. Arrays such as [4]float take any value
// with the same number of components of the same scalar type.
func kageAccepts(typ string, kind Kind) bool {
	if accepted, known := kageTypeKinds[typ]; known {
		return containsKind(accepted, kind)
	}

	m := kageArrayType.FindStringSubmatch(typ)
	if m == nil {
		return false
	}
	length, err := strconv.Atoi(m[1])
	if err != nil {
		return false
	}
	elem, known := kageTypeKinds[m[2]]
	if !known {
		return false
	}
	return kind.Components() == length*elem[0].Components() && kind.isInt() == elem[0].isInt()
}

func (k Kind) isInt() bool {
	switch k {
	case KindInt, KindIVec2, KindIVec3, KindIVec4:
		return true
	}
	return false
}

func containsKind(kinds []Kind, kind Kind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// toKageValue converts a uniform value to the representation ebiten accepts
func toKageValue(value any) any {
	switch v := value.(type) {
	case Vec2:
		return v[:]
	case Vec3:
		return v[:]
	case Vec4:
		return v[:]
	case IVec2:
		return v[:]
	case IVec3:
		return v[:]
	case IVec4:
		return v[:]
	case Mat2:
		return v[:]
	case Mat3:
		return v[:]
	case Mat4:
		return v[:]
	case RGBA:
		return []float32{v.R, v.G, v.B, v.A}
	}
	return value
}
