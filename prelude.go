package main

import _ "embed"

// The default prelude ships inside the binary so the compiler works
// without an install tree. A different prelude file can be substituted on
// the command line.
//
//go:embed stdlib/prelude.pec
var defaultPreludeSource string

// DefaultPreludeSource returns the embedded prelude text.
func DefaultPreludeSource() string {
	return defaultPreludeSource
}
