// Package ziparchive implements the archive reader for zip-container
// bulk drops.
//
// One handle is opened per run and stays open for the run's lifetime:
// the central directory gives a lazy metadata scan with no content
// decode, and individual entries are decoded on demand in any order.
// Entries compressed with zstd (method 93) are supported alongside the
// standard deflate method.
package ziparchive
