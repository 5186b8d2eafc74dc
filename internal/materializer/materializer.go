// Package materializer writes one host's archive entries to local disk
// under a strict memory bound.
//
// Entries are processed in fixed-size chunks with a bounded worker
// pool. Each worker reads its entry's full content, writes it out
// immediately, then releases the buffer before the next chunk starts,
// so peak memory is bounded by chunk size times average file size
// independent of total archive size.
package materializer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/stashware/dredge-cli/internal/core/domain"
	"github.com/stashware/dredge-cli/internal/core/ports/driven"
	"github.com/stashware/dredge-cli/internal/logger"
)

// Materializer writes host entries beneath a per-run directory.
type Materializer struct {
	reader driven.ArchiveReader
	runDir string
	limit  int

	// In-flight buffer instrumentation. maxInFlight lets tests verify
	// the memory bound; it is not used by the pipeline itself.
	inFlight    atomic.Int64
	maxInFlight atomic.Int64
}

// New creates a materializer writing under runDir with at most limit
// entries' content held in memory at once.
func New(reader driven.ArchiveReader, runDir string, limit int) *Materializer {
	if limit < 1 {
		limit = 1
	}
	return &Materializer{reader: reader, runDir: runDir, limit: limit}
}

// Result is one host's materialization outcome.
type Result struct {
	// Files holds metadata for every entry that completed without error,
	// directories included.
	Files []domain.FileMetadata

	// Failed counts entries whose read or write failed. They are logged
	// and excluded from Files; they never reach persistence.
	Failed int
}

// MaxInFlight returns the high-water mark of concurrently held buffers.
func (m *Materializer) MaxInFlight() int {
	return int(m.maxInFlight.Load())
}

// Materialize writes one host's entries to disk, mirroring the
// archive-relative path under runDir/<hostID>/. A failure on one entry
// does not abort the remaining entries of the host.
func (m *Materializer) Materialize(ctx context.Context, host *domain.HostGroup) Result {
	hostDir := filepath.Join(m.runDir, host.ID)

	var (
		mu     sync.Mutex
		result Result
	)

	entries := host.Entries
	for start := 0; start < len(entries); start += m.limit {
		end := min(start+m.limit, len(entries))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(m.limit)
		for _, entry := range entries[start:end] {
			g.Go(func() error {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				meta, err := m.materializeOne(host, hostDir, entry)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					logger.Warn("Skipping %s: %v", entry.Path, err)
					result.Failed++
					return nil
				}
				result.Files = append(result.Files, meta)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			// Only cancellation reaches here; per-entry errors are
			// absorbed above.
			return result
		}
	}
	return result
}

// materializeOne handles a single entry: directories are recorded as
// zero-size metadata with no I/O, files follow read, write, release.
func (m *Materializer) materializeOne(
	host *domain.HostGroup,
	hostDir string,
	entry domain.ArchiveEntry,
) (domain.FileMetadata, error) {
	relPath := hostRelativePath(host, entry)
	meta := domain.FileMetadata{
		Path:       relPath,
		Name:       entry.Name(),
		ParentPath: parentOf(relPath),
		IsDir:      entry.IsDir,
		Size:       entry.Size,
		Type:       ClassifyType(entry.Name()),
	}
	if entry.IsDir {
		meta.Size = 0
		return meta, nil
	}

	content, err := m.reader.ReadBytes(entry)
	if err != nil {
		return domain.FileMetadata{}, fmt.Errorf("read: %w", err)
	}
	m.trackAcquire()
	defer m.trackRelease()

	target := filepath.Join(hostDir, filepath.FromSlash(SanitizePath(relPath)))
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return domain.FileMetadata{}, fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(target, content, 0o600); err != nil {
		return domain.FileMetadata{}, fmt.Errorf("write: %w", err)
	}

	meta.LocalDiskPath = target
	return meta, nil
}

func (m *Materializer) trackAcquire() {
	current := m.inFlight.Add(1)
	for {
		peak := m.maxInFlight.Load()
		if current <= peak || m.maxInFlight.CompareAndSwap(peak, current) {
			return
		}
	}
}

func (m *Materializer) trackRelease() {
	m.inFlight.Add(-1)
}

// hostRelativePath strips the wrapper and host segments, leaving the
// path relative to the host directory. The host name is matched only at
// its topology-determined segment index, so a host directory that
// shares its name with the wrapper still strips correctly.
func hostRelativePath(host *domain.HostGroup, entry domain.ArchiveEntry) string {
	segments := entry.Segments()
	if host.NameIndex < len(segments) && segments[host.NameIndex] == host.Name {
		rel := strings.Join(segments[host.NameIndex+1:], "/")
		if rel == "" {
			return entry.Name()
		}
		return rel
	}
	return entry.Path
}

func parentOf(relPath string) string {
	if i := strings.LastIndexByte(relPath, '/'); i >= 0 {
		return relPath[:i]
	}
	return ""
}

// textExtensions and binaryExtensions back the filename heuristic.
var (
	textExtensions = map[string]struct{}{
		".txt": {}, ".log": {}, ".json": {}, ".xml": {}, ".csv": {},
		".ini": {}, ".cfg": {}, ".conf": {}, ".html": {}, ".htm": {},
		".md": {}, ".yml": {}, ".yaml": {},
	}
	binaryExtensions = map[string]struct{}{
		".exe": {}, ".dll": {}, ".bin": {}, ".db": {}, ".sqlite": {},
		".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".bmp": {},
		".zip": {}, ".rar": {}, ".7z": {}, ".dat": {},
	}
)

// ClassifyType classifies text vs. binary by filename extension.
func ClassifyType(name string) domain.FileType {
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := textExtensions[ext]; ok {
		return domain.FileTypeText
	}
	if _, ok := binaryExtensions[ext]; ok {
		return domain.FileTypeBinary
	}
	return domain.FileTypeUnknown
}

// illegalPathChars are replaced when mirroring archive paths onto the
// local filesystem.
const illegalPathChars = `<>:"|?*`

// SanitizePath rewrites each path segment so it is legal on the local
// filesystem. Traversal segments collapse to underscores.
func SanitizePath(relPath string) string {
	segments := strings.Split(relPath, "/")
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg == "" || seg == "." {
			continue
		}
		if seg == ".." {
			out = append(out, "__")
			continue
		}
		out = append(out, sanitizeSegment(seg))
	}
	return strings.Join(out, "/")
}

func sanitizeSegment(seg string) string {
	var b strings.Builder
	b.Grow(len(seg))
	for _, r := range seg {
		if r < 0x20 || strings.ContainsRune(illegalPathChars, r) {
			b.WriteByte('_')
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
