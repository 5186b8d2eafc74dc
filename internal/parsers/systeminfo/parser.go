// Package systeminfo parses recognized system fingerprint files.
//
// Files are "Key: Value" line dumps with producer-specific key spelling.
// Parsing is best effort: unknown keys are ignored and a malformed line
// never aborts the file. Log dates run through an ordered set of layout
// attempts before falling back to a generic parse and finally to the
// untouched original string.
package systeminfo

import (
	"strings"
	"time"

	"github.com/stashware/dredge-cli/internal/core/domain"
)

// canonicalLayout is the normalized log date/time form.
const canonicalLayout = "2006-01-02 15:04:05"

// dateLayouts are tried in order: day-first slash/dot, year-first
// dash/slash, then textual month names.
var dateLayouts = []string{
	"2/1/2006 3:04:05 PM",
	"2/1/2006 15:04:05",
	"02/01/2006 15:04:05",
	"2.1.2006 15:04:05",
	"02.01.2006 15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02 15:04:05",
	"2 January 2006 15:04:05",
	"January 2, 2006 3:04:05 PM",
	"Jan 2 2006 15:04:05",
}

// genericLayouts are the last resort before passthrough.
var genericLayouts = []string{
	time.RFC3339,
	time.RFC1123,
	time.ANSIC,
	"2/1/2006",
	"2006-01-02",
}

// fieldKeys maps lowercase producer key spellings onto record fields.
var fieldKeys = map[string]func(*domain.SystemInfo, string){
	"computer name": setComputerName,
	"computername":  setComputerName,
	"pc name":       setComputerName,
	"machine name":  setComputerName,
	"machinename":   setComputerName,

	"os":               setOSName,
	"os version":       setOSName,
	"operating system": setOSName,

	"user name": setUserName,
	"username":  setUserName,
	"user":      setUserName,

	"ip":         setIPAddress,
	"ip address": setIPAddress,
	"ipaddress":  setIPAddress,
	"lanip":      setIPAddress,

	"country": setCountry,

	"hwid": setHWID,
	"guid": setHWID,

	"local time": setLogDate,
	"log date":   setLogDate,
	"logdate":    setLogDate,
	"date":       setLogDate,
}

func setComputerName(r *domain.SystemInfo, v string) { r.ComputerName = v }
func setOSName(r *domain.SystemInfo, v string)       { r.OSName = v }
func setUserName(r *domain.SystemInfo, v string)     { r.UserName = v }
func setIPAddress(r *domain.SystemInfo, v string)    { r.IPAddress = v }
func setCountry(r *domain.SystemInfo, v string)      { r.Country = v }
func setHWID(r *domain.SystemInfo, v string)         { r.HWID = v }
func setLogDate(r *domain.SystemInfo, v string)      { r.LogDate = v }

// Parser parses system fingerprint files.
type Parser struct{}

// New creates a system-info parser.
func New() *Parser {
	return &Parser{}
}

// Parse consumes the full decoded text of one recognized system-info
// file and returns the normalized record.
func (p *Parser) Parse(content string) domain.SystemInfo {
	var record domain.SystemInfo
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimRight(line, "\r"))
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if set, ok := fieldKeys[strings.ToLower(strings.TrimSpace(key))]; ok {
			set(&record, value)
		}
	}

	if record.LogDate != "" {
		record.LogDate, record.LogDateNormalized = NormalizeLogDate(record.LogDate)
	}
	return record
}

// NormalizeLogDate converts a producer date string to the canonical
// layout. When every attempt fails the untouched original is returned
// with ok=false; callers must tolerate the passthrough value rather
// than treat it as an error.
func NormalizeLogDate(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(canonicalLayout), true
		}
	}
	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(canonicalLayout), true
		}
	}
	return raw, false
}
