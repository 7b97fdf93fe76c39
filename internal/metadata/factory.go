package metadata

import (
	"fmt"
	"os/exec"

	"mediagrabber/internal/config"
	"mediagrabber/internal/mg"
)

// NewExtractorFactory returns a factory for the configured extractor type.
// The exiftool binary is located up front so a missing install fails before
// any file is touched.
func NewExtractorFactory(cfg config.MetadataConfig) (mg.ExtractorFactory, error) {
	switch cfg.Type {
	case "", "exif":
		return func() (mg.MetadataExtractor, error) {
			return NewExifExtractor(cfg.FileTimeFallback), nil
		}, nil
	case "exiftool":
		name := cfg.ExiftoolPath
		if name == "" {
			name = "exiftool"
		}
		path, err := exec.LookPath(name)
		if err != nil {
			return nil, fmt.Errorf("%w: exiftool not found: %w", mg.ErrConfiguration, err)
		}
		return func() (mg.MetadataExtractor, error) {
			x, err := StartExiftool(path, cfg.FileTimeFallback)
			if err != nil {
				return nil, err
			}
			return x, nil
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown metadata type: %q", mg.ErrConfiguration, cfg.Type)
	}
}
