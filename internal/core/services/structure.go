package services

import (
	"sort"
	"strings"

	"github.com/stashware/dredge-cli/internal/core/domain"
)

// systemJunkNames is the exact-match deny-list of platform junk that
// never delimits a host.
var systemJunkNames = map[string]struct{}{
	"__MACOSX":                  {},
	".DS_Store":                 {},
	"Thumbs.db":                 {},
	"desktop.ini":               {},
	"System Volume Information": {},
	"$RECYCLE.BIN":              {},
	"$Recycle.Bin":              {},
	"_vti_cnf":                  {},
}

// directDirectoryThreshold is the heuristic cutoff above which an
// archive's top-level directories are taken as hosts directly. The 2-10
// range is inherently ambiguous and classified Nested so the lowered
// confidence surfaces in the run log.
const directDirectoryThreshold = 10

// isJunkSegment reports whether a path segment is a system or hidden
// entry: deny-listed platform junk, or a dotfile.
func isJunkSegment(segment string) bool {
	if _, ok := systemJunkNames[segment]; ok {
		return true
	}
	return strings.HasPrefix(segment, ".")
}

// AnalyzeStructure classifies the archive topology from one scan pass.
//
// The first-path-segment set is filtered (system/hidden entries and
// root-level leaf files removed), then classified: exactly one surviving
// directory means a wrapper (PreDirectory), more than ten means every
// directory is a host (Direct), anything between is the ambiguous
// Nested case treated like Direct. Zero surviving directories is not an
// error - the run simply finds zero hosts.
func AnalyzeStructure(entries []domain.ArchiveEntry) domain.StructureInfo {
	// A first segment survives only if something proves it is a
	// directory: a deeper path beneath it or an explicit directory entry.
	isDirectory := make(map[string]bool)
	for _, e := range entries {
		segments := e.Segments()
		first := segments[0]
		if isJunkSegment(first) {
			continue
		}
		if len(segments) > 1 || e.IsDir {
			isDirectory[first] = true
		} else if _, seen := isDirectory[first]; !seen {
			isDirectory[first] = false
		}
	}

	surviving := make([]string, 0, len(isDirectory))
	for name, dir := range isDirectory {
		if dir {
			surviving = append(surviving, name)
		}
	}
	sort.Strings(surviving)

	info := domain.StructureInfo{TopLevelNames: surviving}
	switch {
	case len(surviving) == 1:
		info.Kind = domain.TopologyPreDirectory
		info.PreDirectoryName = surviving[0]
	case len(surviving) > directDirectoryThreshold:
		info.Kind = domain.TopologyDirect
	default:
		info.Kind = domain.TopologyNested
	}
	return info
}

// ResolveHostName maps an entry to the host it belongs to under the
// detected topology. The second return is false for system/hidden paths
// and for paths inconsistent with the topology (e.g. stray root files
// under Direct); such entries are dropped before grouping and never
// opened for content.
func ResolveHostName(entry domain.ArchiveEntry, info domain.StructureInfo) (string, bool) {
	segments := entry.Segments()
	if isJunkSegment(segments[0]) {
		return "", false
	}

	switch info.Kind {
	case domain.TopologyPreDirectory:
		if segments[0] != info.PreDirectoryName {
			return "", false
		}
		if len(segments) < 2 {
			return "", false
		}
		if isJunkSegment(segments[1]) {
			return "", false
		}
		// A leaf file directly under the wrapper belongs to no host.
		if len(segments) == 2 && !entry.IsDir {
			return "", false
		}
		return segments[1], true

	case domain.TopologyDirect, domain.TopologyNested:
		// A root-level leaf file is not a host.
		if len(segments) == 1 && !entry.IsDir {
			return "", false
		}
		return segments[0], true

	default:
		return "", false
	}
}
