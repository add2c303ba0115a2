package upload

import (
	"html/template"
	"strings"
)

var listTemplate = template.Must(template.New("files").Parse(
	`{{range $i, $f := .}}<div class="file-item">
  <div class="file-info">
    <span class="file-icon">📄</span>
    <div>
      <div class="file-name">{{$f.Name}}</div>
      <div class="file-size">{{$f.Size}}</div>
    </div>
  </div>
  <button class="file-remove" data-index="{{$i}}">✕</button>
</div>
{{end}}`))

type listRow struct {
	Name string
	Size string
}

// Render returns the staged list markup and whether the upload actions
// should be shown. Names are escaped.
func (c *Controller) Render() (string, bool) {
	files := c.Files()
	if len(files) == 0 {
		return "", false
	}

	rows := make([]listRow, len(files))
	for i, f := range files {
		rows[i] = listRow{Name: f.Name, Size: FormatFileSize(f.Size)}
	}

	var b strings.Builder
	if err := listTemplate.Execute(&b, rows); err != nil {
		return "", true
	}
	return b.String(), true
}
