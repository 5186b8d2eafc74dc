package parsers

import (
	"path"
	"strings"
)

// Kind identifies which record parser handles a recognized file.
type Kind string

// Recognised record kinds.
const (
	KindCredentials Kind = "credentials"
	KindSoftware    Kind = "software"
	KindSystemInfo  Kind = "systeminfo"
)

// Allow-lists of recognized base names, lowercase. Producers vary in
// naming but draw from a small fixed set.
var (
	credentialFileNames = []string{
		"passwords.txt",
		"all passwords.txt",
		"_allpasswords_list.txt",
		"passwords_list.txt",
		"credentials.txt",
	}

	softwareFileNames = []string{
		"software.txt",
		"installed_software.txt",
		"installedsoftware.txt",
		"installed apps.txt",
		"programs.txt",
		"apps.txt",
	}

	systemInfoFileNames = []string{
		"system_info.txt",
		"systeminfo.txt",
		"system.txt",
		"information.txt",
		"userinformation.txt",
		"user_information.txt",
	}
)

// Recognize maps an archive path to the record kind its base name
// belongs to. The match is exact and case-insensitive.
func Recognize(archivePath string) (Kind, bool) {
	base := strings.ToLower(path.Base(archivePath))
	switch {
	case contains(credentialFileNames, base):
		return KindCredentials, true
	case contains(softwareFileNames, base):
		return KindSoftware, true
	case contains(systemInfoFileNames, base):
		return KindSystemInfo, true
	default:
		return "", false
	}
}

func contains(names []string, base string) bool {
	for _, n := range names {
		if n == base {
			return true
		}
	}
	return false
}
