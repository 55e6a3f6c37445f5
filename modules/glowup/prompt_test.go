package glowup

import (
	"strings"
	"testing"

	"glowup-server/modules/common/model"
)

func TestBuildInstruction(t *testing.T) {
	got := BuildInstruction(model.StyleDSLR, "a dog on a beach")

	if !strings.Contains(got, "Canon R5") {
		t.Error("dslr instruction missing camera profile")
	}
	if !strings.Contains(got, "STRICTLY PRESERVE") {
		t.Error("missing preservation constraint")
	}
	if !strings.Contains(got, "a dog on a beach") {
		t.Error("vision text not embedded in instruction")
	}
}

func TestBuildInstruction_StylesDiffer(t *testing.T) {
	iphone := BuildInstruction(model.StyleIphone, "v")
	dslr := BuildInstruction(model.StyleDSLR, "v")
	if iphone == dslr {
		t.Error("style instructions must differ")
	}
}
