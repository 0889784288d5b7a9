package ports

// ImageOptions límites de la copia optimizada y tamaños de miniatura.
type ImageOptions struct {
	MaxWidth       int
	MaxHeight      int
	ThumbnailSizes []int
}

// ImageVariant imagen derivada ya codificada.
type ImageVariant struct {
	Data     []byte
	Width    int
	Height   int
	MimeType string
	Ext      string
}

// ProcessedImage salida del procesamiento.
// Optimized es nil si el original ya cabe en los límites.
type ProcessedImage struct {
	Width      int
	Height     int
	Format     string
	Optimized  *ImageVariant
	Thumbnails map[int]*ImageVariant
}

// ImageProcessor genera la copia optimizada y las miniaturas de una imagen subida.
type ImageProcessor interface {
	Process(data []byte, opts ImageOptions) (*ProcessedImage, error)
}
