package domain

import "strings"

// ArchiveEntry is one entry scanned from a bulk-drop archive.
// It is immutable once scanned: content is fetched lazily through the
// archive reader using Ref, never stored on the entry itself.
type ArchiveEntry struct {
	// Path is the entry path normalized to forward slashes with no
	// leading slash.
	Path string

	// Size is the uncompressed size in bytes. Zero for directories.
	Size int64

	// IsDir indicates a directory entry.
	IsDir bool

	// Ref is the reader-assigned content handle. It is opaque to
	// everything except the reader that produced the entry.
	Ref int
}

// Name returns the final path segment.
func (e ArchiveEntry) Name() string {
	p := strings.TrimSuffix(e.Path, "/")
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}

// ParentPath returns the path up to (not including) the final segment,
// or "" for top-level entries.
func (e ArchiveEntry) ParentPath() string {
	p := strings.TrimSuffix(e.Path, "/")
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return ""
}

// Segments returns the path split on forward slashes.
func (e ArchiveEntry) Segments() []string {
	return strings.Split(strings.TrimSuffix(e.Path, "/"), "/")
}

// Topology is the inferred directory convention an archive uses to
// delimit hosts.
type Topology string

// Recognised archive topologies.
const (
	// TopologyPreDirectory means one wrapper directory contains the
	// per-host directories as its immediate children.
	TopologyPreDirectory Topology = "pre_directory"

	// TopologyDirect means each top-level directory is a host.
	TopologyDirect Topology = "direct"

	// TopologyNested is the ambiguous middle ground (2-10 top-level
	// directories). It is treated like Direct but surfaced with lower
	// confidence so an operator can override a misclassification.
	TopologyNested Topology = "nested"
)

// IsValid returns true if the topology is recognised.
func (t Topology) IsValid() bool {
	switch t {
	case TopologyPreDirectory, TopologyDirect, TopologyNested:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t Topology) String() string {
	return string(t)
}

// Confidence returns a human-readable confidence note for run logs.
func (t Topology) Confidence() string {
	switch t {
	case TopologyPreDirectory:
		return "high (single wrapper directory)"
	case TopologyDirect:
		return "high (many top-level directories)"
	case TopologyNested:
		return "low (2-10 top-level directories, treated as direct)"
	default:
		return "unknown"
	}
}

// StructureInfo describes the host topology inferred from one scan pass.
type StructureInfo struct {
	// Kind is the classified topology.
	Kind Topology

	// PreDirectoryName is the wrapper directory name. Set only when
	// Kind is TopologyPreDirectory.
	PreDirectoryName string

	// TopLevelNames are the surviving first-path-segment values after
	// system/hidden entries and root-level leaf files are removed.
	TopLevelNames []string
}
