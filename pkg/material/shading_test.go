package material

import (
	"math"
	"testing"

	"github.com/ppsrender/pathtracer/pkg/core"
)

const tolerance = 1e-9

func vecNear(a, b core.Vec3) bool {
	return a.Subtract(b).Length() <= tolerance
}

func TestReflect_Mirror(t *testing.T) {
	mirror := NewMirror(core.NewVec3(1, 1, 1))
	up := core.NewVec3(0, 1, 0)

	tests := []struct {
		name     string
		incoming core.Vec3
		expected core.Vec3
	}{
		{
			name:     "45 degree hit on floor",
			incoming: core.NewVec3(1, -1, 0).Normalize(),
			expected: core.NewVec3(1, 1, 0).Normalize(),
		},
		{
			name:     "head-on",
			incoming: core.NewVec3(0, -1, 0),
			expected: core.NewVec3(0, 1, 0),
		},
		{
			// No component along the normal, so the direction is unchanged
			name:     "grazing",
			incoming: core.NewVec3(1, 0, -1).Normalize(),
			expected: core.NewVec3(1, 0, -1).Normalize(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reflect(tt.incoming, up, &mirror)
			if !vecNear(got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestReflect_AngleOfIncidenceEqualsAngleOfReflection(t *testing.T) {
	mirror := NewMirror(core.NewVec3(1, 1, 1))
	normal := core.NewVec3(0.2, 1, -0.3).Normalize()
	incoming := core.NewVec3(0.7, -0.4, 0.1).Normalize()

	reflected := Reflect(incoming, normal, &mirror)

	incidence := incoming.Negate().Angle(normal)
	reflection := reflected.Angle(normal)
	if math.Abs(incidence-reflection) > 1e-9 {
		t.Errorf("Angle of incidence %f != angle of reflection %f", incidence, reflection)
	}

	// Incoming, normal and reflected directions must be coplanar
	if triple := incoming.Cross(normal).Dot(reflected); math.Abs(triple) > 1e-9 {
		t.Errorf("Vectors not coplanar, triple product %g", triple)
	}
}

func TestScalarRoughness(t *testing.T) {
	in := core.NewVec3(1, -1, 0).Normalize()

	if got := ScalarRoughness(in, 0.5); !vecNear(got, in) {
		t.Errorf("Roughness below 1 should keep the direction, got %v", got)
	}
	for _, r := range []float64{1.0, DefaultRoughness, 3} {
		got := ScalarRoughness(in, r)
		if got.IsNaN() || !got.IsZero() {
			t.Errorf("Roughness %f: expected zero vector, got %v", r, got)
		}
	}
}

func TestWiggleRoughness(t *testing.T) {
	in := core.NewVec3(1, -1, 0).Normalize()
	n := core.NewVec3(0, 1, 0)

	got := WiggleRoughness(in, n, 0.5)
	expected := in.Add(n.Multiply(0.5)).Normalize()
	if !vecNear(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
	if got.Dot(n) <= in.Dot(n) {
		t.Errorf("Wiggle should bend toward the normal: %v", got)
	}
}

func TestReflect_UsesWiggleWhenFlagged(t *testing.T) {
	in := core.NewVec3(1, -1, 0).Normalize()
	n := core.NewVec3(0, 1, 0)
	m := NewMirror(core.NewVec3(1, 1, 1))
	m.Roughness = 0.5
	m.WiggleRoughness = true

	i := WiggleRoughness(in, n, 0.5)
	expected := i.Subtract(n.Multiply(2 * i.Dot(n))).Normalize()
	if got := Reflect(in, n, &m); !vecNear(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestReflect_DefaultRoughnessCollapses(t *testing.T) {
	m := New(core.NewVec3(1, 1, 1))
	got := Reflect(core.NewVec3(1, -1, 0).Normalize(), core.NewVec3(0, 1, 0), &m)
	if got.IsNaN() {
		t.Fatalf("Reflect produced NaN: %v", got)
	}
	if !got.IsZero() {
		t.Errorf("Expected degenerate zero direction, got %v", got)
	}
}

func TestRefract_InvalidIORMatchesReflect(t *testing.T) {
	normal := core.NewVec3(0, 1, 0)
	incoming := core.NewVec3(0.3, -0.8, 0.1)

	for _, ior := range []float64{0, 1e-7, 1e-6, -2} {
		m := NewGlass(core.NewVec3(1, 1, 1), ior)
		m.Roughness = 0.25
		got := Refract(incoming, normal, &m)
		want := Reflect(incoming, normal, &m)
		if got != want {
			t.Errorf("IOR %g: expected bit-identical %v, got %v", ior, want, got)
		}
		if got := RefractEntryOnly(incoming, normal, &m); got != want {
			t.Errorf("IOR %g (entry-only): expected %v, got %v", ior, want, got)
		}
	}
}

func TestRefract_NormalIncidencePassesStraight(t *testing.T) {
	glass := NewGlass(core.NewVec3(1, 1, 1), 1.5)
	normal := core.NewVec3(0, 1, 0)

	entering := Refract(core.NewVec3(0, -1, 0), normal, &glass)
	if !vecNear(entering, core.NewVec3(0, -1, 0)) {
		t.Errorf("Entering: expected (0,-1,0), got %v", entering)
	}

	exiting := Refract(core.NewVec3(0, 1, 0), normal, &glass)
	if !vecNear(exiting, core.NewVec3(0, 1, 0)) {
		t.Errorf("Exiting: expected (0,1,0), got %v", exiting)
	}
}

func TestRefract_SnellsLaw(t *testing.T) {
	glass := NewGlass(core.NewVec3(1, 1, 1), 1.5)
	normal := core.NewVec3(0, 1, 0)
	incoming := core.NewVec3(1, -1, 0).Normalize()

	refracted := Refract(incoming, normal, &glass)

	thetaI := incoming.Negate().Angle(normal)
	thetaT := refracted.Angle(normal.Negate())
	if lhs, rhs := math.Sin(thetaI), 1.5*math.Sin(thetaT); math.Abs(lhs-rhs) > 1e-9 {
		t.Errorf("Snell's law violated: sin(i)=%f, n*sin(t)=%f", lhs, rhs)
	}
	if refracted.Y >= 0 {
		t.Errorf("Refracted ray should continue below the surface, got %v", refracted)
	}
	if math.Abs(refracted.Length()-1) > 1e-12 {
		t.Errorf("Expected unit direction, got length %f", refracted.Length())
	}
}

func TestRefract_TotalInternalReflection(t *testing.T) {
	glass := NewGlass(core.NewVec3(1, 1, 1), 1.5)
	normal := core.NewVec3(0, 1, 0)
	// Leaving the glass at a steep angle: sin^2 = 0.9, eta^2 * 0.9 > 1
	incoming := core.NewVec3(0.9, 0.3, 0).Normalize()

	got := Refract(incoming, normal, &glass)
	expected := core.NewVec3(0.9, -0.3, 0).Normalize()
	if !vecNear(got, expected) {
		t.Errorf("Expected total internal reflection %v, got %v", expected, got)
	}
}

func TestRefractEntryOnly(t *testing.T) {
	glass := NewGlass(core.NewVec3(1, 1, 1), 1.5)
	normal := core.NewVec3(0, 1, 0)

	// Exiting rays always reflect, even head-on where Snell would transmit
	exiting := RefractEntryOnly(core.NewVec3(0, 1, 0), normal, &glass)
	if !vecNear(exiting, core.NewVec3(0, -1, 0)) {
		t.Errorf("Exiting: expected reflection (0,-1,0), got %v", exiting)
	}
	if snell := Refract(core.NewVec3(0, 1, 0), normal, &glass); vecNear(snell, exiting) {
		t.Errorf("Snell refraction and entry-only policy should differ on exit")
	}

	entering := RefractEntryOnly(core.NewVec3(1, -1, 0).Normalize(), normal, &glass)
	if entering.Y >= 0 {
		t.Errorf("Entering ray should pass into the surface, got %v", entering)
	}
}

func TestEmission(t *testing.T) {
	up := core.NewVec3(0, 1, 0)

	plain := New(core.NewVec3(1, 1, 1))
	if got := Emission(up, &plain); !got.IsZero() {
		t.Errorf("Non-emissive material should emit nothing, got %v", got)
	}

	iso := NewEmissive(core.NewVec3(2, 1, 0.5), core.Vec3{})
	if !IsEmissive(&iso) || HasEmissiveDirection(&iso) {
		t.Fatal("Expected isotropic emissive material")
	}
	if got := Emission(core.NewVec3(0, -1, 0), &iso); got != core.NewVec3(2, 1, 0.5) {
		t.Errorf("Isotropic emission should ignore the normal, got %v", got)
	}

	spot := NewEmissive(core.NewVec3(4, 4, 4), core.NewVec3(0, 10, 0))
	tests := []struct {
		name     string
		normal   core.Vec3
		expected core.Vec3
	}{
		{"aligned", up, core.NewVec3(4, 4, 4)},
		{"60 degrees", core.NewVec3(math.Sqrt(3)/2, 0.5, 0), core.NewVec3(2, 2, 2)},
		{"facing away", core.NewVec3(0, -1, 0), core.Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Emission(tt.normal, &spot); !vecNear(got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}

	tiny := NewEmissive(core.NewVec3(1, 1, 1), core.NewVec3(1e-7, 0, 0))
	if HasEmissiveDirection(&tiny) {
		t.Error("Near-zero direction should count as isotropic")
	}
}

func TestMaterial_Attenuation(t *testing.T) {
	tests := []struct {
		name       string
		absorption float64
		thickness  float64
		expected   float64
	}{
		{"none", 0, 0, 1.0},
		{"negative treated as none", -1, -2, 1.0},
		{"absorption only", 1, 0, 0.65 * 0.85},
		{"thickness only", 0, 1, 0.85 * 0.55},
		{"capped reduction", 100, 100, (0.85 - 0.9) * (0.85 - 0.9)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Material{Absorption: tt.absorption, Thickness: tt.thickness}
			if got := m.Attenuation(); math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}
