package ziparchive

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"

	"github.com/stashware/dredge-cli/internal/core/domain"
	"github.com/stashware/dredge-cli/internal/core/ports/driven"
)

// Ensure Reader implements the interface.
var _ driven.ArchiveReader = (*Reader)(nil)

// zstdMethod is the zip compression method ID for zstandard.
const zstdMethod = 93

// Reader is a zip-backed archive reader. Content reads are serialized
// behind a mutex: per-entry deflate streams share buffered state with
// the underlying file handle, so interleaved concurrent decodes are not
// safe on one handle.
type Reader struct {
	mu     sync.Mutex
	zr     *zip.ReadCloser
	closed bool
}

// Open opens the archive at path and parses its central directory.
// A container whose index cannot be parsed yields
// domain.ErrArchiveCorrupt; this is the pipeline's only fatal error.
func Open(path string) (*Reader, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		if errors.Is(err, zip.ErrFormat) || errors.Is(err, zip.ErrChecksum) {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrArchiveCorrupt, path, err)
		}
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}

	zr.RegisterDecompressor(zstdMethod, zstdDecompressor)

	return &Reader{zr: zr}, nil
}

// Scan returns metadata for every entry without decoding any content.
// Paths are normalized to forward slashes with no leading slash; empty
// paths are dropped.
func (r *Reader) Scan() ([]domain.ArchiveEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, domain.ErrReaderClosed
	}

	entries := make([]domain.ArchiveEntry, 0, len(r.zr.File))
	for i, f := range r.zr.File {
		path := normalizePath(f.Name)
		if path == "" {
			continue
		}
		entries = append(entries, domain.ArchiveEntry{
			Path:  path,
			Size:  int64(f.UncompressedSize64), //nolint:gosec // zip sizes fit int64
			IsDir: f.FileInfo().IsDir(),
			Ref:   i,
		})
	}
	return entries, nil
}

// ReadBytes decodes exactly one entry's content.
func (r *Reader) ReadBytes(entry domain.ArchiveEntry) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, domain.ErrReaderClosed
	}
	if entry.Ref < 0 || entry.Ref >= len(r.zr.File) {
		return nil, fmt.Errorf("%w: entry ref %d", domain.ErrInvalidInput, entry.Ref)
	}

	f := r.zr.File[entry.Ref]
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening entry %s: %w", entry.Path, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading entry %s: %w", entry.Path, err)
	}
	return data, nil
}

// ReadText decodes exactly one entry's content as text.
func (r *Reader) ReadText(entry domain.ArchiveEntry) (string, error) {
	data, err := r.ReadBytes(entry)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Close releases the archive handle. Subsequent reads fail with
// domain.ErrReaderClosed.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.zr.Close()
}

// normalizePath converts an archive entry name to the canonical form:
// forward slashes, no leading slash, no trailing slash.
func normalizePath(name string) string {
	p := strings.ReplaceAll(name, `\`, "/")
	p = strings.Trim(p, "/")
	if p == "." {
		return ""
	}
	return p
}

// zstdDecompressor adapts a zstd decoder to the zip Decompressor shape.
func zstdDecompressor(r io.Reader) io.ReadCloser {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return io.NopCloser(errReader{err: err})
	}
	return dec.IOReadCloser()
}

// errReader surfaces a deferred construction error on first read.
type errReader struct {
	err error
}

func (e errReader) Read([]byte) (int, error) {
	return 0, e.err
}
