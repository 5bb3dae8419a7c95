package staticfiles

import (
	"embed"
	"io/fs"
)

//go:embed css/* js/* login.html
var embedded embed.FS

//go:embed index.html
var indexHTML []byte

func EmbeddedFS() fs.FS {
	return embedded
}

func IndexHTML() []byte {
	return indexHTML
}
