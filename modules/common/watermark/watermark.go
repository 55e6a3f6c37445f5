package watermark

import (
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"glowup-server/modules/common/utils"
)

// 워터마크 타일 파라미터 (모든 프리뷰가 동일한 패턴을 공유해야 함)
const (
	tileSize   = 800
	tileAngle  = -35.0 // 도 단위, 타일 중심 기준 회전
	glyphScale = 8     // basicfont 7x13 → 56px급 글리프
	textAlpha  = 0.8
	shadowOff  = 3
)

// Options - 프리뷰 합성 옵션
type Options struct {
	// MaxSize > 0이면 긴 변을 이 크기 안으로 축소 후 워터마크 적용
	MaxSize int
	// JPEG 품질 (1~100)
	Quality int
}

// Apply - 이미지에 반복 대각선 워터마크를 합성해 JPEG로 반환
// 같은 입력이면 항상 같은 출력 (결정적)
func Apply(imageData []byte, text string, opts Options) ([]byte, error) {
	img, _, err := utils.DecodeImage(imageData)
	if err != nil {
		return nil, err
	}

	if opts.MaxSize > 0 {
		img = utils.ResizeInside(img, opts.MaxSize)
	}

	bounds := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Src)

	tile := renderTile(text)

	for y := 0; y < out.Bounds().Dy(); y++ {
		for x := 0; x < out.Bounds().Dx(); x++ {
			ta := tile.AlphaAt(x%tileSize, y%tileSize).A
			if ta == 0 {
				continue
			}
			blendOverlayWhite(out, x, y, float64(ta)/255.0*textAlpha)
		}
	}

	log.Printf("✅ Watermark applied: %dx%d, text length: %d", out.Bounds().Dx(), out.Bounds().Dy(), len(text))

	quality := opts.Quality
	if quality <= 0 {
		quality = 92
	}
	return utils.EncodeJPEG(out, quality)
}

// renderTile - 회전된 텍스트 마스크 타일 생성 (그림자 포함)
func renderTile(text string) *image.Alpha {
	// basicfont로 수평 텍스트 마스크를 먼저 그림
	face := basicfont.Face7x13
	textWidth := font.MeasureString(face, text).Ceil()
	textHeight := face.Metrics().Height.Ceil()

	mask := image.NewAlpha(image.Rect(0, 0, textWidth, textHeight))
	drawer := &font.Drawer{
		Dst:  mask,
		Src:  image.NewUniform(color.Alpha{A: 255}),
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	drawer.DrawString(text)

	// 확대한 텍스트를 타일 중심에 배치하고 역회전 샘플링으로 회전
	scaledW := textWidth * glyphScale
	scaledH := textHeight * glyphScale
	rad := tileAngle * math.Pi / 180.0
	cos, sin := math.Cos(rad), math.Sin(rad)

	tile := image.NewAlpha(image.Rect(0, 0, tileSize, tileSize))
	center := float64(tileSize) / 2

	sample := func(tx, ty int) uint8 {
		// 타일 좌표 → 회전 전 텍스트 좌표
		dx := float64(tx) - center
		dy := float64(ty) - center
		ux := dx*cos + dy*sin + float64(scaledW)/2
		uy := -dx*sin + dy*cos + float64(scaledH)/2
		if ux < 0 || uy < 0 || ux >= float64(scaledW) || uy >= float64(scaledH) {
			return 0
		}
		return mask.AlphaAt(int(ux)/glyphScale, int(uy)/glyphScale).A
	}

	for y := 0; y < tileSize; y++ {
		for x := 0; x < tileSize; x++ {
			a := sample(x, y)
			if a == 0 {
				// 살짝 어긋난 위치의 글리프는 그림자로 처리
				if s := sample(x-shadowOff, y-shadowOff); s > 0 {
					tile.SetAlpha(x, y, color.Alpha{A: s / 3})
				}
				continue
			}
			tile.SetAlpha(x, y, color.Alpha{A: a})
		}
	}

	return tile
}

// blendOverlayWhite - 흰색 워터마크를 overlay 블렌드로 합성
func blendOverlayWhite(img *image.RGBA, x, y int, alpha float64) {
	i := img.PixOffset(x, y)
	for c := 0; c < 3; c++ {
		base := float64(img.Pix[i+c]) / 255.0
		// overlay(base, white=1.0)
		var top float64
		if base < 0.5 {
			top = 2 * base
		} else {
			top = 1
		}
		v := base*(1-alpha) + top*alpha
		img.Pix[i+c] = uint8(math.Round(v * 255))
	}
}
