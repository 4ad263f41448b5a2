package vanilla

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl templates/fields/*.tpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded template bundle so callers can copy and
// customise it before passing it back through WithTemplatesFS.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
