package plotly

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/KaramelBytes/jknstat/internal/utils"
)

// CDN is the plotly.js bundle referenced by generated pages.
const CDN = "https://cdn.plot.ly/plotly-2.35.2.min.js"

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="{{.CDN}}"></script>
</head>
<body>
<div id="chart" style="width:100%;height:90vh;"></div>
<script>
var fig = {{.Figure}};
Plotly.newPlot("chart", fig.data, fig.layout, {responsive: true});
</script>
</body>
</html>
`))

// RenderHTML returns a standalone page that draws fig.
func RenderHTML(fig *Figure) ([]byte, error) {
	js, err := fig.JSON()
	if err != nil {
		return nil, err
	}
	name := "Chart"
	if fig.Layout.Title != nil && fig.Layout.Title.Text != "" {
		name = fig.Layout.Title.Text
	}
	var buf bytes.Buffer
	err = pageTmpl.Execute(&buf, struct {
		Title  string
		CDN    string
		Figure template.JS
	}{name, CDN, template.JS(js)})
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteHTML writes fig as a standalone page to path.
func WriteHTML(fig *Figure, path string) error {
	b, err := RenderHTML(fig)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(path, b)
}
