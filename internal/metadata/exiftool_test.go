package metadata

import (
	"os/exec"
	"testing"
	"time"
)

func TestExiftoolExtractor(t *testing.T) {
	path, err := exec.LookPath("exiftool")
	if err != nil {
		t.Skip("exiftool not installed")
	}

	x, err := StartExiftool(path, false)
	if err != nil {
		t.Fatalf("StartExiftool() error = %v", err)
	}
	defer func() {
		if err := x.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	}()

	mtime := time.Date(2023, 1, 2, 3, 4, 5, 0, time.Local)

	t.Run("reads DateTimeOriginal", func(t *testing.T) {
		p := writeMedia(t, "IMG_0001.JPG", jpegWithDate("2019:03:04 05:06:07"), mtime)
		meta, err := x.Extract(p)
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		want := time.Date(2019, 3, 4, 5, 6, 7, 0, time.UTC)
		if !meta.CaptureTime.Equal(want) {
			t.Errorf("CaptureTime = %v, want %v", meta.CaptureTime, want)
		}
	})

	t.Run("serves several requests", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			p := writeMedia(t, "2020-05-01 10.00.00.jpg", jpegWithDate("2021:01:01 00:00:00"), mtime)
			meta, err := x.Extract(p)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			want := time.Date(2020, 5, 1, 10, 0, 0, 0, time.UTC)
			if !meta.CaptureTime.Equal(want) {
				t.Errorf("CaptureTime = %v, want %v", meta.CaptureTime, want)
			}
		}
	})
}
