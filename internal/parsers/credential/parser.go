// Package credential parses recognized credential files.
//
// Files are line-oriented: one credential per line, either
// pipe-separated ("url | username | password | browser") or
// colon-separated ("url:username:password"). A malformed line is
// skipped, never aborts the file. A line whose password field is
// explicitly empty is valid; a line with no password field at all is
// skipped, not stored as empty.
package credential

import (
	"strings"

	"github.com/stashware/dredge-cli/internal/core/domain"
)

// Result holds one file's parsed credentials plus the side-channel
// password frequency table kept per host.
type Result struct {
	Credentials    []domain.Credential
	PasswordCounts map[string]int
	SkippedLines   int
}

// Parser parses credential files.
type Parser struct{}

// New creates a credential parser.
func New() *Parser {
	return &Parser{}
}

// Parse consumes the full decoded text of one recognized credential
// file belonging to one host.
func (p *Parser) Parse(content, sourcePath string) Result {
	result := Result{PasswordCounts: make(map[string]int)}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		cred, ok := parseLine(line)
		if !ok {
			result.SkippedLines++
			continue
		}
		cred.SourceFilePath = sourcePath
		cred.Domain, cred.TLD = deriveDomainTLD(cred.URL)

		result.Credentials = append(result.Credentials, cred)
		result.PasswordCounts[cred.Password]++
	}
	return result
}

// parseLine splits one line into its fields. The second return is false
// for malformed lines, including lines missing the password field.
func parseLine(line string) (domain.Credential, bool) {
	fields := splitFields(line)
	if len(fields) < 3 {
		return domain.Credential{}, false
	}

	cred := domain.Credential{
		URL:      fields[0],
		Username: fields[1],
		Password: fields[2],
	}
	if len(fields) > 3 {
		cred.Browser = fields[3]
	}

	if cred.URL == "" || cred.Username == "" {
		return domain.Credential{}, false
	}
	return cred, true
}

// splitFields tries the pipe layout first, then the colon layout with
// the URL scheme protected from the split.
func splitFields(line string) []string {
	if strings.Contains(line, "|") {
		parts := strings.Split(line, "|")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}

	scheme := ""
	rest := line
	if i := strings.Index(line, "://"); i >= 0 {
		scheme = line[:i+3]
		rest = line[i+3:]
	}
	parts := strings.Split(rest, ":")
	parts[0] = scheme + parts[0]
	return parts
}

// deriveDomainTLD extracts the hostname from a URL and splits it on
// dots: the full hostname is the domain, its final label the TLD.
func deriveDomainTLD(rawURL string) (string, string) {
	host := rawURL
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	if i := strings.LastIndexByte(host, '@'); i >= 0 {
		host = host[i+1:]
	}
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return "", ""
	}

	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return host, ""
	}
	return host, labels[len(labels)-1]
}
