package rule_test

import (
	"testing"

	"github.com/ridgeline/mediavault/pkg/rule"
)

// uploadMeta mirrors the shape of the classification metadata attached to
// uploads.
type uploadMeta struct {
	Type    string `rule:"required"`
	Section string `rule:"omitempty,alphanum"`
	Order   int    `rule:"gte=0"`
}

// TestEngine verifies Engine returns a non-nil instance.
func TestEngine(t *testing.T) {
	if rule.Engine() == nil {
		t.Error("Engine() returned nil")
	}
}

// TestValidateStruct checks valid and invalid structs.
func TestValidateStruct(t *testing.T) {
	valid := uploadMeta{Type: "gallery", Section: "hero", Order: 2}
	if err := rule.ValidateStruct(valid); err != nil {
		t.Errorf("Expected no error for valid struct, got %v", err)
	}

	// missing Type
	missingType := uploadMeta{Section: "hero"}
	if err := rule.ValidateStruct(missingType); err == nil {
		t.Error("Expected error for struct missing type, got nil")
	}

	// negative order
	negativeOrder := uploadMeta{Type: "gallery", Order: -1}
	if err := rule.ValidateStruct(negativeOrder); err == nil {
		t.Error("Expected error for negative order, got nil")
	}
}

// TestValidateVar checks single-variable validation.
func TestValidateVar(t *testing.T) {
	if err := rule.ValidateVar("gallery", "required,oneof=gallery hero service"); err != nil {
		t.Errorf("Expected no error for known type, got %v", err)
	}

	if err := rule.ValidateVar("banner", "required,oneof=gallery hero service"); err == nil {
		t.Error("Expected error for unknown type, got nil")
	}
}
