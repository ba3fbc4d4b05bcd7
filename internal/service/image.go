package service

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"strings"

	"golang.org/x/image/draw"
)

// maxAdvisorImageEdge 限制发给 AI 的图片最长边，控制请求体积与推理成本。
const maxAdvisorImageEdge = 512

// ErrImageInvalidDataURL 表示图片不是合法的 base64 data URL。
var ErrImageInvalidDataURL = errors.New("invalid image data url")

// NormalizeImageDataURL 解析 data URL、按需缩小图片并统一转为 JPEG data URL。
// 图片已在尺寸限制内时仍会重编码，保证输出格式一致。
func NormalizeImageDataURL(dataURL string) (string, error) {
	payload, err := decodeImageDataURL(dataURL)
	if err != nil {
		return "", err
	}

	src, _, err := image.Decode(bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("%w: empty image", ErrImageInvalidDataURL)
	}

	targetW, targetH := width, height
	if width > maxAdvisorImageEdge || height > maxAdvisorImageEdge {
		if width >= height {
			targetW = maxAdvisorImageEdge
			targetH = height * maxAdvisorImageEdge / width
		} else {
			targetH = maxAdvisorImageEdge
			targetW = width * maxAdvisorImageEdge / height
		}
		if targetW < 1 {
			targetW = 1
		}
		if targetH < 1 {
			targetH = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func decodeImageDataURL(dataURL string) ([]byte, error) {
	trimmed := strings.TrimSpace(dataURL)
	if !strings.HasPrefix(trimmed, "data:image/") {
		return nil, ErrImageInvalidDataURL
	}

	idx := strings.Index(trimmed, ";base64,")
	if idx < 0 {
		return nil, ErrImageInvalidDataURL
	}

	payload, err := base64.StdEncoding.DecodeString(trimmed[idx+len(";base64,"):])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageInvalidDataURL, err)
	}
	if len(payload) == 0 {
		return nil, ErrImageInvalidDataURL
	}
	return payload, nil
}
