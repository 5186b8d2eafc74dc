package domain

// Credential is one parsed login line from a recognized credential file.
type Credential struct {
	// URL is the target the credential applies to, as written in the file.
	URL string

	// Domain is the URL's hostname, when one could be derived.
	Domain string

	// TLD is the hostname's final dot-separated label, when present.
	TLD string

	// Username is the login identifier. Never empty for a valid line.
	Username string

	// Password may be the empty string: an explicitly empty password is
	// valid and preserved. Lines with no password field at all are
	// skipped during parsing, never stored as empty.
	Password string

	// Browser is the reporting application, when the line carries one.
	Browser string

	// SourceFilePath is the archive path of the file the line came from.
	SourceFilePath string
}

// PasswordStat is a per-host password frequency entry, aggregated as a
// side channel while credential lines are parsed.
type PasswordStat struct {
	Password string
	Count    int
}

// SoftwareEntry is one parsed line from a recognized software inventory.
type SoftwareEntry struct {
	// Name is the software name. When no extraction pattern matches,
	// the whole line becomes the name.
	Name string

	// Version is nil when the line carried no recognisable version.
	Version *string

	// SourceFile is the archive path of the inventory file.
	SourceFile string
}

// SystemInfo is the normalized host fingerprint parsed from a
// recognized system-info file.
type SystemInfo struct {
	ComputerName string
	OSName       string
	UserName     string
	IPAddress    string
	Country      string
	HWID         string

	// LogDate is the log date/time after normalization attempts. If no
	// layout matched it is the untouched original string; callers must
	// tolerate the passthrough value rather than treat it as an error.
	LogDate string

	// LogDateNormalized reports whether LogDate was successfully parsed
	// into the canonical layout.
	LogDateNormalized bool
}
