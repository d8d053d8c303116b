package site

import (
	"embed"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// FS returns an http.FileSystem rooted above static/, so request paths
// keep their /static prefix.
func FS() http.FileSystem {
	return http.FS(staticFS)
}
