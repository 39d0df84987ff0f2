package endpoints

import (
	"bytes"
	_ "embed"
	"net/http"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/alqor-ug/qlued-go/pkg/server"
)

//go:embed docs.md
var docsMarkdown []byte

var (
	docsOnce sync.Once
	docsHTML []byte
)

// RegisterDocsEndpoints registers the landing page (no auth required).
func RegisterDocsEndpoints(s *server.Server) {
	s.Router.HandleFunc("/", handleDocs()).Methods("GET")
}

// handleDocs renders the embedded API documentation. The markdown is
// converted once and cached for the lifetime of the process.
func handleDocs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docsOnce.Do(func() {
			md := goldmark.New(goldmark.WithExtensions(extension.GFM))
			var buf bytes.Buffer
			if err := md.Convert(docsMarkdown, &buf); err != nil {
				docsHTML = docsMarkdown
				return
			}
			docsHTML = []byte(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width">
    <title>qlued</title>
  </head>
  <body>
` + buf.String() + `  </body>
</html>
`)
		})

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(docsHTML)
	}
}
