// Package config loads FormConfig definitions from JSON or YAML documents.
//
// A document holds either a single form at the top level or a list of forms
// under a "forms" key. Catalogues are built from any fs.FS (see LoadFS and
// Embedded); HTTPFetcher and FileFetcher retrieve one form at a time. All of
// them implement Fetcher, which either returns a fully formed configuration
// or fails once.
package config
