// Package download writes HTTP response bodies to disk without buffering
// them in memory, with optional checksum validation and progress
// reporting.
//
// # Destination
//
// [Destination] turns a URI and an optional path into the file to write:
//
//	dest, err := download.Destination("https://host/files/report.pdf", "/tmp")
//	// dest == "/tmp/report.pdf" when /tmp is an existing directory
//
// # Writing
//
// [Handle] streams an already decoded body into the destination. By default
// it writes in place, so a failed transfer leaves the partial file behind;
// [WithAtomic] writes to a sibling temp file and renames it on success.
//
// Most callers should use the higher-level
// [github.com/andrearampin/qscraper/session] package, which resolves the
// destination, decodes the body and invokes Handle, and re-exports the
// options here as session.With* functions.
package download
