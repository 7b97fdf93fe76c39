package mg

import (
	"database/sql"
	"time"
)

// Metadata is the snapshot of capture and technical attributes taken from a file.
// CaptureTime is a wall-clock reading expressed in UTC, second precision.
type Metadata struct {
	CaptureTime time.Time
	Width       sql.NullInt64
	Height      sql.NullInt64
	CameraMake  sql.NullString
	CameraModel sql.NullString
	GPSLat      sql.NullFloat64
	GPSLon      sql.NullFloat64
}

// MetadataExtractor derives Metadata for a file. Extract fails with
// ErrMetadataIncomplete when no capture time can be derived; the technical
// attributes are optional.
type MetadataExtractor interface {
	Extract(path *Path) (*Metadata, error)
	Close() error
}

// ExtractorFactory acquires an extractor for the duration of one scan.
// The caller must Close it on every exit path.
type ExtractorFactory func() (MetadataExtractor, error)
