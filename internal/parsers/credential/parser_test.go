package credential

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_PipeSeparated(t *testing.T) {
	p := New()

	content := "https://example.com/login | alice@mail.com | hunter2 | Chrome\n"
	result := p.Parse(content, "dump/host/passwords.txt")

	require.Len(t, result.Credentials, 1)
	cred := result.Credentials[0]
	assert.Equal(t, "https://example.com/login", cred.URL)
	assert.Equal(t, "alice@mail.com", cred.Username)
	assert.Equal(t, "hunter2", cred.Password)
	assert.Equal(t, "Chrome", cred.Browser)
	assert.Equal(t, "dump/host/passwords.txt", cred.SourceFilePath)
	assert.Equal(t, 0, result.SkippedLines)
}

func TestParse_ColonSeparated_SchemeProtected(t *testing.T) {
	p := New()

	result := p.Parse("https://example.com:bob:secret123", "passwords.txt")

	require.Len(t, result.Credentials, 1)
	cred := result.Credentials[0]
	assert.Equal(t, "https://example.com", cred.URL)
	assert.Equal(t, "bob", cred.Username)
	assert.Equal(t, "secret123", cred.Password)
	assert.Empty(t, cred.Browser)
}

func TestParse_EmptyPasswordPreserved(t *testing.T) {
	p := New()

	// Third field present but empty: the empty password is kept.
	result := p.Parse("https://example.com | carol | ", "passwords.txt")

	require.Len(t, result.Credentials, 1)
	assert.Equal(t, "", result.Credentials[0].Password)
	assert.Equal(t, 1, result.PasswordCounts[""])
}

func TestParse_MissingPasswordFieldSkipped(t *testing.T) {
	p := New()

	// Only two fields: no password field at all.
	result := p.Parse("https://example.com | dave", "passwords.txt")

	assert.Empty(t, result.Credentials)
	assert.Equal(t, 1, result.SkippedLines)
}

func TestParse_MalformedLinesDoNotAbortFile(t *testing.T) {
	p := New()

	content := `https://a.example.com | u1 | p1
garbage
https://b.example.com | u2 | p2
| | missing
https://c.example.com | u3 | p1
`
	result := p.Parse(content, "passwords.txt")

	require.Len(t, result.Credentials, 3)
	assert.Equal(t, 2, result.SkippedLines)
	assert.Equal(t, 2, result.PasswordCounts["p1"])
	assert.Equal(t, 1, result.PasswordCounts["p2"])
}

func TestParse_EmptyAndWhitespaceLinesIgnored(t *testing.T) {
	p := New()

	result := p.Parse("\n\n   \n\r\n", "passwords.txt")

	assert.Empty(t, result.Credentials)
	assert.Equal(t, 0, result.SkippedLines)
}

func TestParse_MissingURLOrUsernameSkipped(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "empty url", line: " | user | pass"},
		{name: "empty username", line: "https://example.com |  | pass"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New().Parse(tt.line, "passwords.txt")
			assert.Empty(t, result.Credentials)
			assert.Equal(t, 1, result.SkippedLines)
		})
	}
}

func TestDeriveDomainTLD(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantDomain string
		wantTLD    string
	}{
		{name: "full url", url: "https://accounts.example.co.uk/login?next=x", wantDomain: "accounts.example.co.uk", wantTLD: "uk"},
		{name: "bare host", url: "example.com", wantDomain: "example.com", wantTLD: "com"},
		{name: "with port", url: "http://example.com:8080/x", wantDomain: "example.com", wantTLD: "com"},
		{name: "with userinfo", url: "ftp://user@files.example.org", wantDomain: "files.example.org", wantTLD: "org"},
		{name: "single label", url: "localhost", wantDomain: "localhost", wantTLD: ""},
		{name: "uppercase folded", url: "HTTPS://EXAMPLE.COM", wantDomain: "example.com", wantTLD: "com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			domain, tld := deriveDomainTLD(tt.url)
			assert.Equal(t, tt.wantDomain, domain)
			assert.Equal(t, tt.wantTLD, tld)
		})
	}
}

func TestParse_PasswordCountsAggregate(t *testing.T) {
	p := New()

	content := `https://a.com | u1 | shared
https://b.com | u2 | shared
https://c.com | u3 | unique
`
	result := p.Parse(content, "passwords.txt")

	assert.Equal(t, map[string]int{"shared": 2, "unique": 1}, result.PasswordCounts)
}
