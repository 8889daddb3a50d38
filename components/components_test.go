package components

import "testing"

func TestMaterialTickOnlyTouchesTime(t *testing.T) {
	m := Material{Kind: MaterialShader, Uniforms: Uniforms{Phase: 1.5, Speed: 0.8}}

	m.Tick(12.25)

	if m.Uniforms.Time != 12.25 {
		t.Errorf("time = %v, want 12.25", m.Uniforms.Time)
	}
	if m.Uniforms.Phase != 1.5 || m.Uniforms.Speed != 0.8 {
		t.Errorf("phase/speed changed: %+v", m.Uniforms)
	}
}

func TestMaterialKindNames(t *testing.T) {
	for _, kind := range []MaterialKind{MaterialBasic, MaterialShader} {
		got, err := ParseMaterialKind(kind.String())
		if err != nil || got != kind {
			t.Errorf("ParseMaterialKind(%q) = %v, %v", kind.String(), got, err)
		}
	}
	if _, err := ParseMaterialKind("glass"); err == nil {
		t.Error("expected error for unknown kind")
	}
	if MaterialKind(9).String() != "unknown" {
		t.Errorf("out of range kind = %q", MaterialKind(9).String())
	}
}
