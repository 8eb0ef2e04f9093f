package audio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Source is one request's materialized upload. It is owned by exactly one
// request and must be Closed on every exit path so the temp file is removed.
type Source struct {
	Path string // materialized temp file, seekable for ffmpeg
	Ext  string // lowercased source extension including the dot, e.g. ".mp3"

	pcmOnce sync.Once
	pcm     *PCMBuffer
	pcmErr  error
}

// NewSource writes the uploaded payload to a temp file under dir.
// filename is only used for its extension; an extensionless upload is
// treated as MP3.
func NewSource(dir string, r io.Reader, filename string) (*Source, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".mp3"
	}

	f, err := os.CreateTemp(dir, "upload_*"+ext)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to write upload to %s: %w", f.Name(), err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to close %s: %w", f.Name(), err)
	}

	return &Source{Path: f.Name(), Ext: ext}, nil
}

// Close removes the materialized temp file.
func (s *Source) Close() error {
	return os.Remove(s.Path)
}

// ContentTypeForExt maps a file extension to the content type stored with the
// published object.
func ContentTypeForExt(ext string) string {
	switch ext {
	case ".wav":
		return "audio/wav"
	case ".mp3":
		return "audio/mpeg"
	default:
		return "application/octet-stream"
	}
}
