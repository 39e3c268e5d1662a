package static

import (
	"embed"
	"io/fs"
)

//go:embed index.html
var embedded embed.FS

// EmbeddedFS returns the web console's static files.
func EmbeddedFS() fs.FS {
	return embedded
}
