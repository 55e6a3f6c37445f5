package utils

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG 디코더 등록
	"log"
	"math"
	"strings"
)

// DecodeBase64Image - data URL 접두사 제거 후 base64 디코딩
func DecodeBase64Image(encoded string) ([]byte, error) {
	// "data:image/jpeg;base64,..." 형태 허용
	if idx := strings.Index(encoded, ","); idx >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[idx+1:]
	}

	// 표준/URL-safe, 패딩 유무 모두 허용
	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	}
	var err error
	for _, enc := range encodings {
		var imageData []byte
		if imageData, err = enc.DecodeString(encoded); err == nil {
			return imageData, nil
		}
	}
	return nil, fmt.Errorf("failed to decode base64 image: %w", err)
}

// DecodeImage - 이미지 바이너리 디코딩 (JPEG, PNG, WebP 자동 감지)
func DecodeImage(imageData []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	log.Printf("🔍 Decoded image format: %s (%dx%d)", format, img.Bounds().Dx(), img.Bounds().Dy())
	return img, format, nil
}

// EncodeJPEG - JPEG 인코딩
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// ResizeInside - 긴 변이 maxSize를 넘으면 비율 유지하며 축소, 아니면 원본 반환
func ResizeInside(src image.Image, maxSize int) image.Image {
	srcBounds := src.Bounds()
	srcWidth := srcBounds.Dx()
	srcHeight := srcBounds.Dy()

	if srcWidth <= maxSize && srcHeight <= maxSize {
		return src
	}

	scale := math.Min(
		float64(maxSize)/float64(srcWidth),
		float64(maxSize)/float64(srcHeight),
	)

	newWidth := int(float64(srcWidth) * scale)
	newHeight := int(float64(srcHeight) * scale)

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))

	// Nearest Neighbor 방식으로 리사이즈
	for y := 0; y < newHeight; y++ {
		for x := 0; x < newWidth; x++ {
			srcX := int(float64(x) / scale)
			srcY := int(float64(y) / scale)
			dst.Set(x, y, src.At(srcX, srcY))
		}
	}

	log.Printf("✅ Resized image %dx%d → %dx%d", srcWidth, srcHeight, newWidth, newHeight)
	return dst
}

// SniffMIMEType - 포맷명을 Gemini에 넘길 MIME 타입으로 변환
func SniffMIMEType(format string) string {
	switch format {
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
