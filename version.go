package schat

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var rawVersion string

// Version is the released version of schat.
var Version = strings.TrimSpace(rawVersion)
