package services

import (
	"encoding/hex"
	"strings"

	"github.com/zeebo/blake3"
)

// HostHash returns the stable hash identifying a host across repeated
// ingestions. The name is lowercased first so differently-cased exports
// of the same machine collapse to one record.
func HostHash(hostName string) string {
	sum := blake3.Sum256([]byte(strings.ToLower(hostName)))
	return hex.EncodeToString(sum[:])
}
