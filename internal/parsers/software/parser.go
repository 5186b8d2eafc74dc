// Package software parses recognized software inventory files.
//
// Noise lines are filtered first, then each surviving line runs through
// an ordered set of extraction patterns; the first match wins. A line
// matching no pattern still yields an entry: the whole line becomes the
// name with a nil version.
package software

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/stashware/dredge-cli/internal/core/domain"
)

// maxLineLength is the noise cutoff for inventory lines.
const maxLineLength = 120

// wideGapPattern matches runs of three or more spaces (column dumps).
var wideGapPattern = regexp.MustCompile(`\s{3}`)

// extractionPatterns are tried in fixed priority order; the first match
// wins. Each pattern captures (name, version).
var extractionPatterns = []*regexp.Regexp{
	// "Name - Version"
	regexp.MustCompile(`^(.+?)\s+-\s+(\d[\w.\-]*)\s*$`),
	// "Name (Version)"
	regexp.MustCompile(`^(.+?)\s*\((\d[^)]*)\)\s*$`),
	// "Name [Version]"
	regexp.MustCompile(`^(.+?)\s*\[(\d[^\]]*)\]\s*$`),
	// "Name vX.Y(.Z)", tolerating a trailing parenthetical like "(x64)"
	regexp.MustCompile(`^(.+?)\s+v?(\d+\.\d+(?:\.\d+)*)(?:\s*\([^)]*\))?\s*$`),
	// "Name Version X.Y"
	regexp.MustCompile(`^(.+?)\s+[Vv]ersion\s+(\d[\w.]*)\s*$`),
}

// Parser parses software inventory files.
type Parser struct{}

// New creates a software parser.
func New() *Parser {
	return &Parser{}
}

// Parse consumes the full decoded text of one recognized inventory file.
func (p *Parser) Parse(content, sourceFile string) []domain.SoftwareEntry {
	var entries []domain.SoftwareEntry
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimRight(line, "\r"))
		if line == "" || isNoise(line) {
			continue
		}

		name, version := extract(line)
		entries = append(entries, domain.SoftwareEntry{
			Name:       name,
			Version:    version,
			SourceFile: sourceFile,
		})
	}
	return entries
}

// isNoise reports whether a line is filtered before parsing.
func isNoise(line string) bool {
	if len(line) > maxLineLength {
		return true
	}
	lower := strings.ToLower(line)
	if strings.Contains(lower, "http://") || strings.Contains(lower, "https://") || strings.Contains(lower, "www.") {
		return true
	}
	if wideGapPattern.MatchString(line) {
		return true
	}
	// Separator art (===, ---) and serial/progress dumps (00000).
	if hasRepeatedRun(line, 3, isSpecial) {
		return true
	}
	return hasRepeatedRun(line, 4, isDigit)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isSpecial(r rune) bool {
	if r == '_' || isDigit(r) {
		return false
	}
	return !unicode.IsLetter(r) && !unicode.IsSpace(r)
}

// hasRepeatedRun reports whether line contains a run of at least n
// identical runes in the given class.
func hasRepeatedRun(line string, n int, class func(rune) bool) bool {
	var prev rune
	run := 0
	for _, r := range line {
		if r == prev && class(r) {
			run++
			if run >= n {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}

// extract runs the ordered patterns over one line. No match means the
// whole line is the name and the version stays nil.
func extract(line string) (string, *string) {
	for _, pattern := range extractionPatterns {
		m := pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		version := strings.TrimSpace(m[2])
		if name == "" || version == "" {
			continue
		}
		return name, &version
	}
	return line, nil
}
