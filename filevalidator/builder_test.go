package filevalidator

import (
	"slices"
	"testing"
)

func TestBuilder_Basic(t *testing.T) {
	constraints := NewBuilder().
		Extensions("PNG", ".jpg").
		Constraints()

	if !slices.Equal(constraints.AllowedExts, []string{".png", ".jpg"}) {
		t.Errorf("AllowedExts = %v, want [.png .jpg]", constraints.AllowedExts)
	}
	if !constraints.StrictMIMETypeValidation {
		t.Error("NewBuilder should keep strict type validation")
	}
}

func TestBuilder_Chaining(t *testing.T) {
	validator := Empty().
		Extensions(".png").
		AllowExtensions("jpg").
		BlockExtensions(".exe").
		StrictMIME().
		MapType("image/x-icon", ".ico").
		Build()

	constraints := validator.GetConstraints()
	if !slices.Equal(constraints.AllowedExts, []string{".png", ".jpg"}) {
		t.Errorf("AllowedExts = %v", constraints.AllowedExts)
	}
	if !slices.Equal(constraints.BlockedExts, []string{".exe"}) {
		t.Errorf("BlockedExts = %v", constraints.BlockedExts)
	}
	if _, ok := constraints.Types.Extensions("image/x-icon"); !ok {
		t.Error("MapType did not register image/x-icon")
	}
	if _, ok := DefaultTypeTable().Extensions("image/x-icon"); ok {
		t.Error("MapType leaked into the default table")
	}
}

func TestBuilder_Empty(t *testing.T) {
	constraints := Empty().Constraints()
	if len(constraints.AllowedExts) != 0 {
		t.Errorf("AllowedExts = %v, want none", constraints.AllowedExts)
	}
	if constraints.StrictMIMETypeValidation {
		t.Error("Empty should not enable strict type validation")
	}
}

func TestBuilder_WithTypes(t *testing.T) {
	types := TypeTable{"image/png": {".png"}}
	validator := ForImages().WithTypes(types).Build()

	// image/jpeg is unknown to the injected table, so it passes.
	if err := validator.Validate(Input{FileName: "a.png", SniffedType: "image/jpeg"}); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestPresets(t *testing.T) {
	tests := []struct {
		name    string
		builder *Builder
		accept  string
		reject  string
	}{
		{"images", ForImages(), "a.webp", "a.pdf"},
		{"documents", ForDocuments(), "a.xlsx", "a.png"},
		{"web", ForWeb(), "a.svg", "a.exe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.builder.Build()
			if err := v.Validate(Input{FileName: tt.accept}); err != nil {
				t.Errorf("%s rejected: %v", tt.accept, err)
			}
			if err := v.Validate(Input{FileName: tt.reject}); err == nil {
				t.Errorf("%s accepted", tt.reject)
			}
		})
	}
}

func TestConstraintPresets(t *testing.T) {
	if !slices.Equal(ImageOnlyConstraints().AllowedExts, ImageExtensions()) {
		t.Error("ImageOnlyConstraints does not allow image extensions")
	}
	if !slices.Equal(DocumentOnlyConstraints().AllowedExts, DocumentExtensions()) {
		t.Error("DocumentOnlyConstraints does not allow document extensions")
	}
}
