package capture

import "testing"

func TestForPlatform_HasName(t *testing.T) {
	s := ForPlatform()
	if s.Name() == "" {
		t.Error("expected a named strategy")
	}
}

func TestExclude_UnsupportedIsSilentNoOp(t *testing.T) {
	s := ForPlatform()
	if s.Supported() {
		t.Skip("platform supports capture exclusion")
	}
	// An unsupported strategy must swallow the call entirely, even for a
	// zero handle.
	if err := s.Exclude(0); err != nil {
		t.Errorf("expected nil from no-op strategy, got %v", err)
	}
}

func TestExclude_NilApplyReturnsNil(t *testing.T) {
	s := Strategy{name: "test"}
	if err := s.Exclude(42); err != nil {
		t.Errorf("expected nil when no apply func is bound, got %v", err)
	}
}
