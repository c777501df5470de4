// Package web embeds the built console bundle.
package web

import "embed"

//go:embed all:dist
var DistFS embed.FS
