package metadata

import (
	"bufio"
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"mediagrabber/internal/mg"
)

// exiftoolDateTags are requested from exiftool; every group's value counts.
var exiftoolDateTags = []string{
	"DateTimeOriginal",
	"CreateDate",
	"TrackCreateDate",
	"MediaCreateDate",
	"ModifyDate",
	"DateTime",
}

var exiftoolInfoTags = []string{
	"Make",
	"Model",
	"GPSLatitude",
	"GPSLongitude",
	"ImageWidth",
	"ImageHeight",
}

const exiftoolReady = "{ready}"

// ExiftoolExtractor keeps one exiftool process in -stay_open mode and sends
// it one request per file. It reads video containers goexif cannot.
// Not safe for concurrent use.
type ExiftoolExtractor struct {
	cmd              *exec.Cmd
	stdin            io.WriteCloser
	stdout           *bufio.Reader
	fileTimeFallback bool
}

// StartExiftool launches the exiftool binary at path.
func StartExiftool(path string, fileTimeFallback bool) (*ExiftoolExtractor, error) {
	cmd := exec.Command(path, "-stay_open", "True", "-@", "-")
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("exiftool stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("exiftool stdout: %w", err)
	}
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting exiftool: %w", err)
	}
	return &ExiftoolExtractor{
		cmd:              cmd,
		stdin:            stdin,
		stdout:           bufio.NewReader(stdout),
		fileTimeFallback: fileTimeFallback,
	}, nil
}

// Extract derives the capture time and technical tags of path.
func (e *ExiftoolExtractor) Extract(path *mg.Path) (*mg.Metadata, error) {
	tags, err := e.request(path.String())
	if err != nil {
		return nil, err
	}

	meta := &mg.Metadata{}
	var candidates []time.Time
	for key, v := range tags {
		group, name, ok := strings.Cut(key, ":")
		if !ok || group == "File" || !isDateTag(name) {
			continue
		}
		if s, ok := v.(string); ok {
			if t, ok := ParseTimestamp(s); ok {
				candidates = append(candidates, t)
			}
		}
	}
	if t, ok := FromFilename(path.Name()); ok {
		candidates = append(candidates, t)
	}

	meta.Width = numberTag(tags, "ImageWidth")
	meta.Height = numberTag(tags, "ImageHeight")
	if s, ok := tagValue(tags, "Make").(string); ok && strings.TrimSpace(s) != "" {
		meta.CameraMake = sql.NullString{String: strings.TrimSpace(s), Valid: true}
	}
	if s, ok := tagValue(tags, "Model").(string); ok && strings.TrimSpace(s) != "" {
		meta.CameraModel = sql.NullString{String: strings.TrimSpace(s), Valid: true}
	}
	lat, latOK := tagValue(tags, "GPSLatitude").(float64)
	lon, lonOK := tagValue(tags, "GPSLongitude").(float64)
	if latOK && lonOK {
		meta.GPSLat = sql.NullFloat64{Float64: lat, Valid: true}
		meta.GPSLon = sql.NullFloat64{Float64: lon, Valid: true}
	}

	captured, err := captureTime(path, candidates, e.fileTimeFallback)
	if err != nil {
		return nil, err
	}
	meta.CaptureTime = captured
	return meta, nil
}

// Close asks exiftool to exit and waits for it.
func (e *ExiftoolExtractor) Close() error {
	if _, err := io.WriteString(e.stdin, "-stay_open\nFalse\n"); err != nil {
		e.cmd.Process.Kill()
		e.cmd.Wait()
		return fmt.Errorf("stopping exiftool: %w", err)
	}
	e.stdin.Close()
	if err := e.cmd.Wait(); err != nil {
		return fmt.Errorf("waiting for exiftool: %w", err)
	}
	return nil
}

// request runs one exiftool command and returns the tags of the single file.
func (e *ExiftoolExtractor) request(path string) (map[string]any, error) {
	var args strings.Builder
	// -a keeps duplicate tags from different groups, -G names the group,
	// -n returns GPS and dimensions as numbers.
	for _, a := range []string{"-j", "-a", "-G", "-n"} {
		args.WriteString(a + "\n")
	}
	for _, tag := range exiftoolDateTags {
		args.WriteString("-" + tag + "\n")
	}
	for _, tag := range exiftoolInfoTags {
		args.WriteString("-" + tag + "\n")
	}
	args.WriteString(path + "\n-execute\n")

	if _, err := io.WriteString(e.stdin, args.String()); err != nil {
		return nil, fmt.Errorf("writing exiftool request: %w", err)
	}

	var out bytes.Buffer
	for {
		line, err := e.stdout.ReadString('\n')
		if strings.TrimSpace(line) == exiftoolReady {
			break
		}
		out.WriteString(line)
		if err != nil {
			return nil, fmt.Errorf("reading exiftool response: %w", err)
		}
	}

	body := bytes.TrimSpace(out.Bytes())
	if len(body) == 0 {
		return map[string]any{}, nil
	}
	var records []map[string]any
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decoding exiftool response: %w", err)
	}
	if len(records) == 0 {
		return map[string]any{}, nil
	}
	return records[0], nil
}

func isDateTag(name string) bool {
	for _, t := range exiftoolDateTags {
		if name == t {
			return true
		}
	}
	return false
}

// tagValue returns the value of name, preferring the Composite group
// (signed GPS coordinates) over the first group found.
func tagValue(tags map[string]any, name string) any {
	if v, ok := tags["Composite:"+name]; ok {
		return v
	}
	for key, v := range tags {
		if _, n, ok := strings.Cut(key, ":"); ok && n == name {
			return v
		}
	}
	return nil
}

func numberTag(tags map[string]any, name string) sql.NullInt64 {
	if v, ok := tagValue(tags, name).(float64); ok && v > 0 {
		return sql.NullInt64{Int64: int64(v), Valid: true}
	}
	return sql.NullInt64{}
}

// Compile-time check that ExiftoolExtractor implements mg.MetadataExtractor interface
var _ mg.MetadataExtractor = (*ExiftoolExtractor)(nil)
