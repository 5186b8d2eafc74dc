// Package parsers recognises and parses the structured record files
// inside a host's directory.
//
// Recognition is a fixed, case-insensitive allow-list per record kind,
// matched against the file's base name - not general pattern matching.
// The per-kind parsers live in the credential, software and systeminfo
// subpackages; all are line-tolerant, skipping malformed lines rather
// than aborting the file.
package parsers
