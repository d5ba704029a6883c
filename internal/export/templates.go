package export

import (
	"bytes"
	"html/template"

	"cvstudio/api/internal/store"
)

type pageData struct {
	Index int
	Left  []store.Section
	Right []store.Section
}

type templateData struct {
	Name   string
	Header *store.Header
	Pages  []pageData
	Style  template.CSS
}

// templateStyles carries the per-template CSS. The markup is shared; the
// visual templates differ in typography, accent and column treatment only.
var templateStyles = map[Template]string{
	TemplateClassic: `
		body { font-family: Georgia, 'Times New Roman', serif; color: #1f2430; }
		.page { padding: 40px 48px; }
		.header { border-bottom: 3px double #1f2430; padding-bottom: 16px; }
		.header h1 { font-size: 28px; margin: 0; letter-spacing: 1px; }
		.header .headline { font-size: 15px; color: #5b6270; }
		.section h2 { font-size: 14px; text-transform: uppercase; letter-spacing: 2px; border-bottom: 1px solid #c9ced8; }
	`,
	TemplateModern: `
		body { font-family: 'Helvetica Neue', Arial, sans-serif; color: #15181e; }
		.page { padding: 36px 44px; }
		.header { background: #15324e; color: #fff; padding: 20px 24px; border-radius: 6px; }
		.header h1 { font-size: 26px; margin: 0; font-weight: 600; }
		.header .headline { color: #9fc2e0; font-size: 14px; }
		.section h2 { font-size: 13px; color: #15324e; text-transform: uppercase; letter-spacing: 1.5px; }
		.section h2::after { content: ""; display: block; width: 36px; border-bottom: 3px solid #2d6da3; margin-top: 4px; }
	`,
	TemplateCompact: `
		body { font-family: Arial, sans-serif; color: #222; font-size: 12px; }
		.page { padding: 28px 32px; }
		.header h1 { font-size: 20px; margin: 0; }
		.header .headline { font-size: 12px; color: #666; }
		.section h2 { font-size: 11px; text-transform: uppercase; margin-bottom: 4px; }
		.item { margin-bottom: 4px; }
	`,
}

var resumeTemplate = template.Must(template.New("resume").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Name}}</title>
<style>
	* { box-sizing: border-box; }
	body { margin: 0; }
	.page { page-break-after: always; min-height: 1043px; }
	.page:last-child { page-break-after: auto; }
	.columns { display: flex; gap: 32px; margin-top: 20px; }
	.column { flex: 1; min-width: 0; }
	.section { margin-bottom: 18px; }
	.item { margin-bottom: 10px; }
	.item .title-line { font-weight: bold; }
	.item .meta { font-size: 0.85em; color: #777; }
	.contact { font-size: 0.85em; margin-top: 6px; }
	{{.Style}}
</style>
</head>
<body>
{{$header := .Header}}
{{range .Pages}}
<div class="page">
	{{if eq .Index 0}}
	<div class="header">
		<h1>{{$header.FullName}}</h1>
		<div class="headline">{{$header.Title}}</div>
		<div class="contact">
			{{if $header.Email}}<span>{{$header.Email}}</span>{{end}}
			{{if $header.Phone}}<span> · {{$header.Phone}}</span>{{end}}
			{{if $header.Location}}<span> · {{$header.Location}}</span>{{end}}
			{{if $header.Website}}<span> · {{$header.Website}}</span>{{end}}
		</div>
		{{if $header.Summary}}<p class="summary">{{$header.Summary}}</p>{{end}}
	</div>
	{{end}}
	<div class="columns">
		<div class="column">
			{{range .Left}}{{template "section" .}}{{end}}
		</div>
		<div class="column">
			{{range .Right}}{{template "section" .}}{{end}}
		</div>
	</div>
</div>
{{end}}
</body>
</html>

{{define "section"}}
<div class="section" data-section-id="{{.ID}}">
	<h2>{{.Title}}</h2>
	{{range .Content.Education}}
	<div class="item">
		<div class="title-line">{{.Degree}}</div>
		<div>{{.Institution}}</div>
		{{if .Period}}<div class="meta">{{.Period}}</div>{{end}}
		{{if .Description}}<div>{{.Description}}</div>{{end}}
	</div>
	{{end}}
	{{range .Content.Projects}}
	<div class="item">
		<div class="title-line">{{.Name}}</div>
		{{if .Period}}<div class="meta">{{.Period}}</div>{{end}}
		{{if .Description}}<div>{{.Description}}</div>{{end}}
		{{if .Link}}<div class="meta">{{.Link}}</div>{{end}}
	</div>
	{{end}}
	{{range .Content.Languages}}
	<div class="item">{{.Name}}{{if .Level}} — {{.Level}}{{end}}</div>
	{{end}}
	{{range .Content.Skills}}
	<span class="item">{{.Name}}</span>
	{{end}}
	{{range .Content.Achievements}}
	<div class="item">
		<div class="title-line">{{.Title}}</div>
		{{if .Description}}<div>{{.Description}}</div>{{end}}
	</div>
	{{end}}
	{{range .Content.Volunteering}}
	<div class="item">
		<div class="title-line">{{.Organization}}</div>
		{{if .Role}}<div>{{.Role}}</div>{{end}}
		{{if .Period}}<div class="meta">{{.Period}}</div>{{end}}
		{{if .Description}}<div>{{.Description}}</div>{{end}}
	</div>
	{{end}}
	{{range .Content.MyTime}}
	<div class="item">{{.Label}} — {{.Percent}}%</div>
	{{end}}
	{{range .Content.IndustryExpertise}}
	<div class="item">{{.Name}}</div>
	{{end}}
</div>
{{end}}`))

// RenderHTML paginates the snapshot's sections and renders the full
// multi-page HTML for the chosen visual template.
func RenderHTML(snap store.Snapshot, tpl Template) (string, error) {
	style, ok := templateStyles[tpl]
	if !ok {
		return "", ErrUnknownTemplate
	}

	pages, byID := paginate(snap.Resume)
	data := templateData{
		Name:   snap.Name,
		Header: snap.Resume.Header,
		Style:  template.CSS(style),
	}
	if data.Header == nil {
		data.Header = &store.Header{}
	}
	for i, page := range pages {
		pd := pageData{Index: i}
		for _, block := range page.Left {
			pd.Left = append(pd.Left, byID[block.ID])
		}
		for _, block := range page.Right {
			pd.Right = append(pd.Right, byID[block.ID])
		}
		data.Pages = append(data.Pages, pd)
	}

	var buf bytes.Buffer
	if err := resumeTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
