package glowup

import (
	"fmt"

	"glowup-server/modules/common/model"
)

// 스타일별 생성 지시문 (시뮬레이션할 광학계 프로필)
var styleInstructions = map[string]string{
	model.StyleIphone: "Simulate iPhone 17 Pro Max. Computational HDR, hyper-sharp, wide dynamic range.",
	model.StyleDSLR:   "Simulate Canon R5 85mm f/1.2. Optical bokeh, cinematic lighting, soft highlight rolloff.",
}

const commonConstraint = "Preserve the subject identity, pose, framing, and background. " +
	"Remove artifacts. Do not add text or watermarks. " +
	"Increase clarity, depth, dynamic range, and realistic skin tones."

// BuildInstruction - 스타일 지시문 + 비전 보존 제약 결합
// 비전 설명은 피사체가 바뀌는 것을 막는 하드 제약으로 들어간다
func BuildInstruction(style, vision string) string {
	return fmt.Sprintf("%s\n%s\nSTRICTLY PRESERVE: %s", styleInstructions[style], commonConstraint, vision)
}
