package mailauth

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.md
var templatesFS embed.FS

// Templates returns the embedded mail templates, rooted so template names
// are plain filenames (e.g. "verify_domain.md").
func Templates() fs.FS {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}
