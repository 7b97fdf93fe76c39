package metadata

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"mediagrabber/internal/mg"
)

// exifDateFields are the EXIF date tags considered for the capture time.
var exifDateFields = []exif.FieldName{
	exif.DateTimeOriginal,
	exif.DateTimeDigitized,
	exif.DateTime,
}

// ExifExtractor reads EXIF data in-process. Files without EXIF (most videos)
// fall back to a timestamp in the file name and, if enabled, the
// modification time.
type ExifExtractor struct {
	fileTimeFallback bool
}

func NewExifExtractor(fileTimeFallback bool) *ExifExtractor {
	return &ExifExtractor{fileTimeFallback: fileTimeFallback}
}

// Extract derives the capture time and technical tags of path.
func (e *ExifExtractor) Extract(path *mg.Path) (*mg.Metadata, error) {
	x, err := decode(path.String())
	if err != nil {
		return nil, err
	}

	meta := &mg.Metadata{}
	var candidates []time.Time
	if x != nil {
		for _, field := range exifDateFields {
			if s, ok := stringField(x, field); ok {
				if t, ok := ParseTimestamp(s); ok {
					candidates = append(candidates, t)
				}
			}
		}
		meta.Width = intField(x, exif.PixelXDimension, exif.ImageWidth)
		meta.Height = intField(x, exif.PixelYDimension, exif.ImageLength)
		if s, ok := stringField(x, exif.Make); ok {
			meta.CameraMake = sql.NullString{String: s, Valid: true}
		}
		if s, ok := stringField(x, exif.Model); ok {
			meta.CameraModel = sql.NullString{String: s, Valid: true}
		}
		if lat, lon, err := x.LatLong(); err == nil {
			meta.GPSLat = sql.NullFloat64{Float64: lat, Valid: true}
			meta.GPSLon = sql.NullFloat64{Float64: lon, Valid: true}
		}
	}
	if t, ok := FromFilename(path.Name()); ok {
		candidates = append(candidates, t)
	}

	captured, err := captureTime(path, candidates, e.fileTimeFallback)
	if err != nil {
		return nil, err
	}
	meta.CaptureTime = captured
	return meta, nil
}

func (e *ExifExtractor) Close() error { return nil }

// decode returns nil without error when the file carries no usable EXIF.
func decode(path string) (*exif.Exif, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", mg.ErrFilesystemAccess, err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return nil, nil
	}
	return x, nil
}

func stringField(x *exif.Exif, name exif.FieldName) (string, bool) {
	tag, err := x.Get(name)
	if err != nil {
		return "", false
	}
	s, err := tag.StringVal()
	if err != nil {
		return "", false
	}
	s = strings.TrimSpace(strings.TrimRight(s, "\x00"))
	return s, s != ""
}

func intField(x *exif.Exif, names ...exif.FieldName) sql.NullInt64 {
	for _, name := range names {
		tag, err := x.Get(name)
		if err != nil {
			continue
		}
		if v, err := tag.Int(0); err == nil && v > 0 {
			return sql.NullInt64{Int64: int64(v), Valid: true}
		}
	}
	return sql.NullInt64{}
}

// captureTime picks the oldest candidate, or the modification time when the
// fallback is enabled.
func captureTime(path *mg.Path, candidates []time.Time, fallback bool) (time.Time, error) {
	if t, ok := Oldest(candidates); ok {
		return t, nil
	}
	if fallback && path.Info() != nil {
		return wallClock(path.Info().ModTime()), nil
	}
	return time.Time{}, fmt.Errorf("%w: %s", mg.ErrMetadataIncomplete, path.Name())
}

// Compile-time check that ExifExtractor implements mg.MetadataExtractor interface
var _ mg.MetadataExtractor = (*ExifExtractor)(nil)
