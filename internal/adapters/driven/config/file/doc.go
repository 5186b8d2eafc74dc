// Package file provides a TOML-backed implementation of the
// driven.ConfigStore port. Configuration lives at ~/.dredge/config.toml
// with nested tables flattened to dot-notation keys.
package file
