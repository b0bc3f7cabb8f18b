package loaders

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ppsrender/pathtracer/pkg/core"
	"github.com/ppsrender/pathtracer/pkg/geometry"
	"github.com/ppsrender/pathtracer/pkg/lights"
	"github.com/ppsrender/pathtracer/pkg/material"
	"github.com/ppsrender/pathtracer/pkg/scene"
)

var (
	// ErrUnknownMaterial is returned when a shape references an undefined material
	ErrUnknownMaterial = errors.New("unknown material")
	// ErrUnknownShape is returned for unsupported shape types
	ErrUnknownShape = errors.New("unknown shape type")
	// ErrUnknownLight is returned for unsupported light types
	ErrUnknownLight = errors.New("unknown light type")
	// ErrInvalidScene is returned for values that cannot form a valid scene
	ErrInvalidScene = errors.New("invalid scene")
)

// Defaults for fields a scene file may omit
const (
	DefaultWidth    = 400
	DefaultHeight   = 225
	DefaultMaxDepth = 20
	DefaultVFov     = 45.0
)

// Vec3Cfg is a JSON [x, y, z] triple
type Vec3Cfg [3]float64

func (v Vec3Cfg) Vec3() core.Vec3 { return core.NewVec3(v[0], v[1], v[2]) }

// Vec2Cfg is a JSON [u, v] pair
type Vec2Cfg [2]float64

func (v Vec2Cfg) Vec2() core.Vec2 { return core.NewVec2(v[0], v[1]) }

// SceneFile is the on-disk description of a scene
type SceneFile struct {
	Name        string                 `json:"name,omitempty"`
	Description string                 `json:"description,omitempty"`
	Camera      CameraCfg              `json:"camera"`
	Render      RenderCfg              `json:"render"`
	Background  *Vec3Cfg               `json:"background,omitempty"`
	Materials   map[string]MaterialCfg `json:"materials"`
	Shapes      []ShapeCfg             `json:"shapes"`
	Lights      []LightCfg             `json:"lights"`
}

type CameraCfg struct {
	Center *Vec3Cfg `json:"center,omitempty"`
	LookAt *Vec3Cfg `json:"lookAt,omitempty"`
	Up     *Vec3Cfg `json:"up,omitempty"`
	VFov   float64  `json:"vfov,omitempty"`
}

type RenderCfg struct {
	Width    int `json:"width,omitempty"`
	Height   int `json:"height,omitempty"`
	MaxDepth int `json:"maxDepth,omitempty"`
}

type MaterialCfg struct {
	Albedo            Vec3Cfg  `json:"albedo"`
	Roughness         *float64 `json:"roughness,omitempty"` // omitted means material.DefaultRoughness
	WiggleRoughness   bool     `json:"wiggleRoughness,omitempty"`
	SSS               float64  `json:"sss,omitempty"`
	SSSLayers         float64  `json:"sssLayers,omitempty"`
	Transmissive      bool     `json:"transmissive,omitempty"`
	IOR               float64  `json:"ior,omitempty"`
	Absorption        float64  `json:"absorption,omitempty"`
	Thickness         float64  `json:"thickness,omitempty"`
	Emission          Vec3Cfg  `json:"emission,omitempty"`
	EmissionDirection Vec3Cfg  `json:"emissionDirection,omitempty"`
}

// ShapeCfg describes one primitive. Which fields apply depends on Type.
type ShapeCfg struct {
	Type     string    `json:"type"` // plane, sphere, triangle or quad
	Material string    `json:"material"`
	Point    Vec3Cfg   `json:"point,omitempty"`  // plane
	Normal   Vec3Cfg   `json:"normal,omitempty"` // plane
	Size     *float64  `json:"size,omitempty"`   // plane half-size; <= 0 is unbounded
	Center   Vec3Cfg   `json:"center,omitempty"` // sphere
	Radius   float64   `json:"radius,omitempty"` // sphere
	Vertices []Vec3Cfg `json:"vertices,omitempty"`
	UVs      []Vec2Cfg `json:"uvs,omitempty"`
}

// LightCfg describes a light. Missing color and energy fall back to
// lights.Default: white, energy 1.
type LightCfg struct {
	Type      string   `json:"type"` // point or directional
	Position  Vec3Cfg  `json:"position,omitempty"`
	Direction Vec3Cfg  `json:"direction,omitempty"`
	Color     *Vec3Cfg `json:"color,omitempty"`
	Energy    *float64 `json:"energy,omitempty"`
}

// LoadScene reads and builds a JSON scene file
func LoadScene(path string) (*scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	s, err := ParseScene(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseScene builds a scene from JSON data
func ParseScene(data []byte) (*scene.Scene, error) {
	var file SceneFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}
	return file.Build()
}

// Build validates the description and constructs the scene. Shapes are added
// in file order.
func (f SceneFile) Build() (*scene.Scene, error) {
	s := scene.New()

	s.SamplingConfig = scene.SamplingConfig{
		Width:    orDefault(f.Render.Width, DefaultWidth),
		Height:   orDefault(f.Render.Height, DefaultHeight),
		MaxDepth: orDefault(f.Render.MaxDepth, DefaultMaxDepth),
	}
	if f.Render.Width < 0 || f.Render.Height < 0 || f.Render.MaxDepth < 0 {
		return nil, fmt.Errorf("%w: negative render setting %+v", ErrInvalidScene, f.Render)
	}
	if f.Background != nil {
		s.Background = f.Background.Vec3()
	}

	cameraConfig, err := f.Camera.build(float64(s.SamplingConfig.Width) / float64(s.SamplingConfig.Height))
	if err != nil {
		return nil, err
	}
	s.CameraConfig = cameraConfig
	s.Camera = geometry.NewCamera(cameraConfig)

	materials := make(map[string]material.Material, len(f.Materials))
	for name, cfg := range f.Materials {
		materials[name] = cfg.build()
	}

	for i, shapeCfg := range f.Shapes {
		mat, ok := materials[shapeCfg.Material]
		if !ok {
			return nil, fmt.Errorf("shape %d: %w %q", i, ErrUnknownMaterial, shapeCfg.Material)
		}
		shape, err := shapeCfg.build(mat)
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		s.AddShape(shape)
	}

	for i, lightCfg := range f.Lights {
		light, err := lightCfg.build()
		if err != nil {
			return nil, fmt.Errorf("light %d: %w", i, err)
		}
		s.AddLight(light)
	}

	return s, nil
}

func (c CameraCfg) build(aspect float64) (geometry.CameraConfig, error) {
	config := geometry.CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        DefaultVFov,
		AspectRatio: aspect,
	}
	if c.Center != nil {
		config.Center = c.Center.Vec3()
	}
	if c.LookAt != nil {
		config.LookAt = c.LookAt.Vec3()
	}
	if c.Up != nil {
		config.Up = c.Up.Vec3()
	}
	if c.VFov != 0 {
		config.VFov = c.VFov
	}

	if config.LookAt.Subtract(config.Center).IsZero() {
		return config, fmt.Errorf("%w: camera lookAt equals center", ErrInvalidScene)
	}
	if config.VFov <= 0 || config.VFov >= 180 {
		return config, fmt.Errorf("%w: camera vfov %g out of range", ErrInvalidScene, config.VFov)
	}
	return config, nil
}

func (c MaterialCfg) build() material.Material {
	m := material.New(c.Albedo.Vec3())
	if c.Roughness != nil {
		m.Roughness = *c.Roughness
	}
	m.WiggleRoughness = c.WiggleRoughness
	m.SSS = c.SSS
	m.SSSLayers = c.SSSLayers
	m.Transmissive = c.Transmissive
	m.IOR = c.IOR
	m.Absorption = c.Absorption
	m.Thickness = c.Thickness
	m.Emissive = material.Emissive{
		Albedo:    c.Emission.Vec3(),
		Direction: c.EmissionDirection.Vec3(),
	}
	return m
}

func (c ShapeCfg) build(mat material.Material) (geometry.Shape, error) {
	switch c.Type {
	case "plane":
		if c.Normal.Vec3().IsZero() {
			return nil, fmt.Errorf("%w: plane normal is zero", ErrInvalidScene)
		}
		size := geometry.DefaultPlaneSize
		if c.Size != nil {
			size = *c.Size
		}
		if size <= 0 {
			return geometry.NewInfinitePlane(c.Point.Vec3(), c.Normal.Vec3(), mat), nil
		}
		return geometry.NewPlaneWithSize(c.Point.Vec3(), c.Normal.Vec3(), size, mat), nil

	case "sphere":
		if c.Radius <= 0 {
			return nil, fmt.Errorf("%w: sphere radius %g", ErrInvalidScene, c.Radius)
		}
		return geometry.NewSphere(c.Center.Vec3(), c.Radius, mat), nil

	case "triangle":
		if err := c.checkVertices(3); err != nil {
			return nil, err
		}
		v := c.Vertices
		if len(c.UVs) == 0 {
			return geometry.NewTriangle(v[0].Vec3(), v[1].Vec3(), v[2].Vec3(), mat), nil
		}
		uv := c.UVs
		return geometry.NewTriangleWithUV(v[0].Vec3(), v[1].Vec3(), v[2].Vec3(),
			uv[0].Vec2(), uv[1].Vec2(), uv[2].Vec2(), mat), nil

	case "quad":
		if err := c.checkVertices(4); err != nil {
			return nil, err
		}
		v := c.Vertices
		if len(c.UVs) == 0 {
			return geometry.NewQuad(v[0].Vec3(), v[1].Vec3(), v[2].Vec3(), v[3].Vec3(), mat), nil
		}
		uv := c.UVs
		return geometry.NewQuadWithUV(v[0].Vec3(), v[1].Vec3(), v[2].Vec3(), v[3].Vec3(),
			uv[0].Vec2(), uv[1].Vec2(), uv[2].Vec2(), uv[3].Vec2(), mat), nil

	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownShape, c.Type)
	}
}

func (c ShapeCfg) checkVertices(n int) error {
	if len(c.Vertices) != n {
		return fmt.Errorf("%w: %s needs %d vertices, got %d", ErrInvalidScene, c.Type, n, len(c.Vertices))
	}
	if len(c.UVs) != 0 && len(c.UVs) != n {
		return fmt.Errorf("%w: %s needs %d uvs, got %d", ErrInvalidScene, c.Type, n, len(c.UVs))
	}
	return nil
}

func (c LightCfg) build() (lights.Light, error) {
	light := lights.Default()
	if c.Color != nil {
		light.Color = c.Color.Vec3()
	}
	if c.Energy != nil {
		light.Energy = *c.Energy
	}

	switch c.Type {
	case "point", "":
		return lights.NewPointLight(c.Position.Vec3(), light.Color, light.Energy), nil
	case "directional":
		if c.Direction.Vec3().IsZero() {
			return lights.Light{}, fmt.Errorf("%w: directional light without direction", ErrInvalidScene)
		}
		return lights.NewDirectionalLight(c.Direction.Vec3(), light.Color, light.Energy), nil
	default:
		return lights.Light{}, fmt.Errorf("%w %q", ErrUnknownLight, c.Type)
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
