// Package clipdoc turns web pages into structured documents.
// It fetches each URL through several backends, extracts the main content
// with more than one algorithm, keeps the best candidate, and writes it into
// a document store as a sequence of position-addressed edits.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, trafilatura/, sqlite/).
package clipdoc
