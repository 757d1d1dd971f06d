// Package imageprep нормализует загруженные фотографии перед генерацией:
// ограничивает размер по длинной стороне и перекодирует в JPEG.
package imageprep

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	// Регистрируем декодеры распространенных форматов
	_ "image/gif"
	_ "image/png"

	xdraw "golang.org/x/image/draw"

	"wanderweave-server/internal/model"
)

const (
	// DefaultMaxDimension - максимум по длинной стороне в пикселях.
	DefaultMaxDimension = 1920
	// DefaultJPEGQuality - качество перекодирования JPEG.
	DefaultJPEGQuality = 80
)

// Preparer перекодирует изображения с ограничением размера.
type Preparer struct {
	maxDimension int
	jpegQuality  int
}

// New создает Preparer. Неположительные параметры заменяются значениями по умолчанию.
func New(maxDimension, jpegQuality int) *Preparer {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	if jpegQuality <= 0 || jpegQuality > 100 {
		jpegQuality = DefaultJPEGQuality
	}
	return &Preparer{maxDimension: maxDimension, jpegQuality: jpegQuality}
}

// Prepare декодирует изображение, при необходимости уменьшает его с сохранением
// пропорций и всегда перекодирует в JPEG. Изображение в пределах лимита
// не масштабируется, но перекодирование происходит в любом случае.
func (p *Preparer) Prepare(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrImageDecode, err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width > p.maxDimension || height > p.maxDimension {
		width, height = fitDimensions(width, height, p.maxDimension)
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: p.jpegQuality}); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrImageEncode, err)
	}
	return buf.Bytes(), nil
}

// fitDimensions пересчитывает размеры так, чтобы длинная сторона равнялась maxDim.
func fitDimensions(width, height, maxDim int) (int, int) {
	if width >= height {
		h := int(float64(height)*float64(maxDim)/float64(width) + 0.5)
		if h < 1 {
			h = 1
		}
		return maxDim, h
	}
	w := int(float64(width)*float64(maxDim)/float64(height) + 0.5)
	if w < 1 {
		w = 1
	}
	return w, maxDim
}
