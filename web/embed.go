// Package web embeds the console page templates.
package web

import "embed"

//go:embed templates/*.html
var TemplateFiles embed.FS
