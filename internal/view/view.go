// Package view holds the HTML templates of the record screens.
package view

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

// Layout is the layout every screen renders into.
const Layout = "layouts/main"

//go:embed templates
var files embed.FS

// New parses the embedded templates. Parse errors surface here rather than on the
// first request.
func New() (*html.Engine, error) {
	sub, err := fs.Sub(files, "templates")
	if err != nil {
		return nil, fmt.Errorf("templates fs: %w", err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	if err := engine.Load(); err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	return engine, nil
}
