package web

import "embed"

// Templates embeds the HTML mail templates.
//
//go:embed templates/mail/*.html
var Templates embed.FS
