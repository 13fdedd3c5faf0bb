// Package data holds the event corpus compiled into the binary.
package data

import (
	_ "embed"
)

// Events is the default corpus as a JSON array of events, six per puzzle in
// corpus order.
//
//go:embed events.json
var Events []byte
