package domain

// FileType classifies a materialized file's content by filename heuristic.
type FileType string

// Recognised file types.
const (
	FileTypeText    FileType = "text"
	FileTypeBinary  FileType = "binary"
	FileTypeUnknown FileType = "unknown"
)

// IsValid returns true if the file type is recognised.
func (t FileType) IsValid() bool {
	switch t {
	case FileTypeText, FileTypeBinary, FileTypeUnknown:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t FileType) String() string {
	return string(t)
}

// FileMetadata is the persisted record of one materialized archive entry.
type FileMetadata struct {
	// Path is the entry path relative to the host directory.
	Path string

	// Name is the final path segment.
	Name string

	// ParentPath is the path up to the final segment, "" at host root.
	ParentPath string

	// IsDir indicates a directory entry, recorded with no I/O.
	IsDir bool

	// Size is the uncompressed size in bytes.
	Size int64

	// Type is the filename-heuristic classification.
	Type FileType

	// LocalDiskPath is where the content was written. Empty only for
	// directories; entries whose write failed never reach persistence.
	LocalDiskPath string
}
