// Package views embeds the HTML templates rendered by the server.
package views

import "embed"

// FS holds every template, addressed by path without the .html extension.
//
//go:embed *.html layouts/*.html partials/*.html
var FS embed.FS
