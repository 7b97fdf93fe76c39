package metadata

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// exifLayout is the timestamp format used by EXIF date tags.
const exifLayout = "2006:01:02 15:04:05"

var (
	validTimestamp = regexp.MustCompile(`^[1-9]\d{3}:[0-1]\d:[0-3]\d [0-2]\d:[0-5]\d:[0-5]\d`)
	looseTimestamp = regexp.MustCompile(`([1-9]\d{3})[.:-]([0-1]\d)[.:-]([0-3]\d)[ _]([0-2]\d)[.:]([0-5]\d)[.:]([0-5]\d)`)
)

// filenamePatterns match camera naming schemes that carry a full timestamp.
// Date-only names are ignored: midnight would beat the real capture time.
var filenamePatterns = []struct {
	regex  *regexp.Regexp
	layout string
}{
	// DJI drone: DJI_20250619224111_0001_D.MP4
	{regexp.MustCompile(`DJI_(\d{14})`), "20060102150405"},
	// Phones and most cameras: IMG_20250619_123456.jpg, VID_20250619_123456.mp4
	{regexp.MustCompile(`(?:^|[^\d])(\d{8}_\d{6})(?:[^\d]|$)`), "20060102_150405"},
}

// ParseTimestamp reads a date tag value. Only the first 19 characters are
// considered, so trailing sub-seconds or zone offsets are dropped. Values not
// in EXIF form get one normalization attempt (2020-05-01 10.00.00 and similar).
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if len(raw) > 19 {
		raw = raw[:19]
	}
	if !validTimestamp.MatchString(raw) {
		raw = looseTimestamp.ReplaceAllString(raw, "$1:$2:$3 $4:$5:$6")
		if !validTimestamp.MatchString(raw) {
			return time.Time{}, false
		}
	}
	t, err := time.ParseInLocation(exifLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FromFilename extracts a capture timestamp embedded in a file name.
func FromFilename(name string) (time.Time, bool) {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if m := looseTimestamp.FindString(base); m != "" {
		if t, ok := ParseTimestamp(m); ok {
			return t, true
		}
	}
	for _, p := range filenamePatterns {
		m := p.regex.FindStringSubmatch(base)
		if len(m) < 2 {
			continue
		}
		t, err := time.ParseInLocation(p.layout, m[1], time.UTC)
		if err == nil && t.Year() >= 1000 {
			return t, true
		}
	}
	return time.Time{}, false
}

// Oldest returns the earliest of the given timestamps.
func Oldest(candidates []time.Time) (time.Time, bool) {
	var oldest time.Time
	for _, c := range candidates {
		if oldest.IsZero() || c.Before(oldest) {
			oldest = c
		}
	}
	return oldest, !oldest.IsZero()
}

// wallClock relabels a local time as UTC, keeping the reading.
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}
