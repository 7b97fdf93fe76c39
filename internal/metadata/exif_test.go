package metadata

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mediagrabber/internal/config"
	"mediagrabber/internal/mg"
)

// jpegWithDate builds a minimal JPEG whose EXIF sub-IFD holds only
// DateTimeOriginal.
func jpegWithDate(date string) []byte {
	be := binary.BigEndian
	tiff := make([]byte, 64)
	copy(tiff, []byte{'M', 'M', 0, 0x2a})
	be.PutUint32(tiff[4:], 8)

	// IFD0: one entry pointing at the EXIF IFD.
	be.PutUint16(tiff[8:], 1)
	be.PutUint16(tiff[10:], 0x8769)
	be.PutUint16(tiff[12:], 4)
	be.PutUint32(tiff[14:], 1)
	be.PutUint32(tiff[18:], 26)
	be.PutUint32(tiff[22:], 0)

	// EXIF IFD: DateTimeOriginal as a 20-byte ASCII value.
	be.PutUint16(tiff[26:], 1)
	be.PutUint16(tiff[28:], 0x9003)
	be.PutUint16(tiff[30:], 2)
	be.PutUint32(tiff[32:], 20)
	be.PutUint32(tiff[36:], 44)
	be.PutUint32(tiff[40:], 0)
	copy(tiff[44:], date)

	payload := append([]byte("Exif\x00\x00"), tiff...)
	out := []byte{0xFF, 0xD8, 0xFF, 0xE1}
	out = be.AppendUint16(out, uint16(len(payload)+2))
	out = append(out, payload...)
	return append(out, 0xFF, 0xD9)
}

func writeMedia(t *testing.T, name string, data []byte, mtime time.Time) *mg.Path {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing media: %v", err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	return mg.NewPath(path, false, info)
}

func TestExifExtractor_Extract(t *testing.T) {
	mtime := time.Date(2023, 1, 2, 3, 4, 5, 0, time.Local)

	t.Run("reads DateTimeOriginal", func(t *testing.T) {
		t.Parallel()
		p := writeMedia(t, "IMG_0001.JPG", jpegWithDate("2019:03:04 05:06:07"), mtime)

		meta, err := NewExifExtractor(true).Extract(p)
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		want := time.Date(2019, 3, 4, 5, 6, 7, 0, time.UTC)
		if !meta.CaptureTime.Equal(want) {
			t.Errorf("CaptureTime = %v, want %v", meta.CaptureTime, want)
		}
		if meta.GPSLat.Valid || meta.CameraMake.Valid {
			t.Errorf("unexpected technical tags: %+v", meta)
		}
	})

	t.Run("oldest of tag and filename wins", func(t *testing.T) {
		t.Parallel()
		p := writeMedia(t, "IMG_20180101_120000.jpg", jpegWithDate("2019:03:04 05:06:07"), mtime)

		meta, err := NewExifExtractor(false).Extract(p)
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		want := time.Date(2018, 1, 1, 12, 0, 0, 0, time.UTC)
		if !meta.CaptureTime.Equal(want) {
			t.Errorf("CaptureTime = %v, want %v", meta.CaptureTime, want)
		}
	})

	t.Run("no exif uses filename", func(t *testing.T) {
		t.Parallel()
		p := writeMedia(t, "2020-05-01 10.00.00.mov", []byte("not an image"), mtime)

		meta, err := NewExifExtractor(false).Extract(p)
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		want := time.Date(2020, 5, 1, 10, 0, 0, 0, time.UTC)
		if !meta.CaptureTime.Equal(want) {
			t.Errorf("CaptureTime = %v, want %v", meta.CaptureTime, want)
		}
	})

	t.Run("falls back to modification time", func(t *testing.T) {
		t.Parallel()
		p := writeMedia(t, "clip.mov", []byte("not an image"), mtime)

		meta, err := NewExifExtractor(true).Extract(p)
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		want := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
		if !meta.CaptureTime.Equal(want) {
			t.Errorf("CaptureTime = %v, want %v", meta.CaptureTime, want)
		}
	})

	t.Run("incomplete without fallback", func(t *testing.T) {
		t.Parallel()
		p := writeMedia(t, "clip.mov", []byte("not an image"), mtime)

		_, err := NewExifExtractor(false).Extract(p)
		if !errors.Is(err, mg.ErrMetadataIncomplete) {
			t.Errorf("Extract() error = %v, want ErrMetadataIncomplete", err)
		}
	})

	t.Run("invalid tag is ignored", func(t *testing.T) {
		t.Parallel()
		p := writeMedia(t, "IMG_0002.JPG", jpegWithDate("0000:00:00 00:00:00"), mtime)

		_, err := NewExifExtractor(false).Extract(p)
		if !errors.Is(err, mg.ErrMetadataIncomplete) {
			t.Errorf("Extract() error = %v, want ErrMetadataIncomplete", err)
		}
	})
}

func TestNewExtractorFactory(t *testing.T) {
	t.Run("exif is the default", func(t *testing.T) {
		factory, err := NewExtractorFactory(config.MetadataConfig{})
		if err != nil {
			t.Fatalf("NewExtractorFactory() error = %v", err)
		}
		x, err := factory()
		if err != nil {
			t.Fatalf("factory() error = %v", err)
		}
		defer x.Close()
		if _, ok := x.(*ExifExtractor); !ok {
			t.Errorf("expected *ExifExtractor, got %T", x)
		}
	})

	t.Run("missing exiftool is a configuration error", func(t *testing.T) {
		_, err := NewExtractorFactory(config.MetadataConfig{
			Type:         "exiftool",
			ExiftoolPath: filepath.Join(t.TempDir(), "no-such-exiftool"),
		})
		if !errors.Is(err, mg.ErrConfiguration) {
			t.Errorf("error = %v, want ErrConfiguration", err)
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := NewExtractorFactory(config.MetadataConfig{Type: "magic"})
		if !errors.Is(err, mg.ErrConfiguration) {
			t.Errorf("error = %v, want ErrConfiguration", err)
		}
	})
}
