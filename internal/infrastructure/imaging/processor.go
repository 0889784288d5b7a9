// Package imaging decodifica imágenes subidas y genera la copia optimizada y las miniaturas.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/jhoicas/pms-api/internal/application/ports"
)

// JPEGQuality calidad de salida para copias y miniaturas JPEG.
const JPEGQuality = 85

// Processor redimensiona con CatmullRom; PNG conserva formato (transparencia), el resto sale como JPEG.
type Processor struct{}

var _ ports.ImageProcessor = (*Processor)(nil)

// NewProcessor construye el procesador.
func NewProcessor() *Processor { return &Processor{} }

// Dimensions lee solo la cabecera de la imagen.
func (p *Processor) Dimensions(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("imaging: leer dimensiones: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// Process decodifica data y genera las variantes pedidas en opts.
func (p *Processor) Process(data []byte, opts ports.ImageOptions) (*ports.ProcessedImage, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("imaging: decodificar: %w", err)
	}
	b := src.Bounds()
	res := &ports.ProcessedImage{
		Width:      b.Dx(),
		Height:     b.Dy(),
		Format:     format,
		Thumbnails: make(map[int]*ports.ImageVariant, len(opts.ThumbnailSizes)),
	}

	if opts.MaxWidth > 0 && opts.MaxHeight > 0 && (res.Width > opts.MaxWidth || res.Height > opts.MaxHeight) {
		w, h := Fit(res.Width, res.Height, opts.MaxWidth, opts.MaxHeight)
		v, err := encode(resize(src, w, h), format)
		if err != nil {
			return nil, err
		}
		res.Optimized = v
	}

	for _, size := range opts.ThumbnailSizes {
		if size <= 0 {
			continue
		}
		w, h := Fit(res.Width, res.Height, size, size)
		img := src
		if w != res.Width || h != res.Height {
			img = resize(src, w, h)
		}
		v, err := encode(img, format)
		if err != nil {
			return nil, err
		}
		res.Thumbnails[size] = v
	}
	return res, nil
}

// Fit escala (w, h) para caber en (maxW, maxH) manteniendo la proporción; nunca amplía.
func Fit(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return w, h
	}
	if w <= maxW && h <= maxH {
		return w, h
	}
	rw := float64(maxW) / float64(w)
	rh := float64(maxH) / float64(h)
	r := rw
	if rh < r {
		r = rh
	}
	nw, nh := int(float64(w)*r+0.5), int(float64(h)*r+0.5)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}

func resize(src image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

func encode(img image.Image, format string) (*ports.ImageVariant, error) {
	var buf bytes.Buffer
	b := img.Bounds()
	v := &ports.ImageVariant{Width: b.Dx(), Height: b.Dy()}
	if format == "png" {
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("imaging: codificar png: %w", err)
		}
		v.MimeType, v.Ext = "image/png", "png"
	} else {
		if err := jpeg.Encode(&buf, flatten(img), &jpeg.Options{Quality: JPEGQuality}); err != nil {
			return nil, fmt.Errorf("imaging: codificar jpeg: %w", err)
		}
		v.MimeType, v.Ext = "image/jpeg", "jpg"
	}
	v.Data = buf.Bytes()
	return v, nil
}

// flatten compone sobre fondo blanco; JPEG no tiene canal alfa.
func flatten(img image.Image) image.Image {
	b := img.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, image.White, image.Point{}, draw.Src)
	draw.Draw(dst, b, img, b.Min, draw.Over)
	return dst
}
