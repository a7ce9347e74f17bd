package subscription

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/creamcroissant/singprov/internal/sharelink"
)

// pageTemplate is the minimal static page exposing the raw links for direct
// human consumption alongside the encoded bundle.
var pageTemplate = template.Must(template.New("links").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Share Links</title>
<style>body{font-family:monospace;margin:2em}li{margin:0.6em 0;word-break:break-all}</style>
</head>
<body>
<h1>Share Links</h1>
<ul>
{{- range . }}
<li><b>{{ .Kind }}</b><br>{{ .URL }}</li>
{{- end }}
</ul>
</body>
</html>
`))

// RenderPage renders the human-readable links page.
func RenderPage(links []sharelink.Link) ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, links); err != nil {
		return nil, fmt.Errorf("render links page: %w", err)
	}
	return buf.Bytes(), nil
}
