package watermark

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

// 단색 JPEG 픽스처 생성
func solidJPEG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestApply_ProducesDecodableJPEG(t *testing.T) {
	src := solidJPEG(t, 400, 300, color.RGBA{60, 90, 120, 255})

	out, err := Apply(src, "GlowUp", Options{Quality: 92})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img, format, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output not decodable: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("expected jpeg output, got %s", format)
	}
	if img.Bounds().Dx() != 400 || img.Bounds().Dy() != 300 {
		t.Errorf("dimensions changed: %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestApply_ChangesPixels(t *testing.T) {
	// 워터마크가 실제로 찍혔는지: 어두운 단색 위에 흰 텍스트면 픽셀이 달라져야 함
	src := solidJPEG(t, 900, 900, color.RGBA{20, 20, 20, 255})

	out, err := Apply(src, "GlowUp", Options{Quality: 92})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output not decodable: %v", err)
	}

	brightened := 0
	for y := 0; y < img.Bounds().Dy(); y += 4 {
		for x := 0; x < img.Bounds().Dx(); x += 4 {
			r, _, _, _ := img.At(x, y).RGBA()
			if r>>8 > 80 {
				brightened++
			}
		}
	}
	if brightened == 0 {
		t.Error("no watermark pixels found on dark background")
	}
}

func TestApply_Deterministic(t *testing.T) {
	src := solidJPEG(t, 300, 300, color.RGBA{120, 80, 40, 255})

	first, err := Apply(src, "GlowUp", Options{Quality: 92})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Apply(src, "GlowUp", Options{Quality: 92})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("same input produced different outputs")
	}
}

func TestApply_ResizesInsideMaxSize(t *testing.T) {
	src := solidJPEG(t, 3200, 2400, color.RGBA{90, 90, 90, 255})

	out, err := Apply(src, "GlowUp", Options{MaxSize: 1600, Quality: 82})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output not decodable: %v", err)
	}
	if img.Bounds().Dx() > 1600 || img.Bounds().Dy() > 1600 {
		t.Errorf("output exceeds max size: %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
	// 비율 유지 확인 (4:3)
	if img.Bounds().Dx() != 1600 || img.Bounds().Dy() != 1200 {
		t.Errorf("expected 1600x1200, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestApply_SmallImageNotUpscaled(t *testing.T) {
	src := solidJPEG(t, 200, 150, color.RGBA{90, 90, 90, 255})

	out, err := Apply(src, "GlowUp", Options{MaxSize: 1600, Quality: 82})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output not decodable: %v", err)
	}
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 150 {
		t.Errorf("small image was resized: %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestApply_RejectsGarbage(t *testing.T) {
	if _, err := Apply([]byte("not an image"), "GlowUp", Options{}); err == nil {
		t.Error("expected error for undecodable input")
	}
}
