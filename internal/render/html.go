package render

import (
	"html/template"
	"io"

	"github.com/studychannel/studychannel/internal/model"
)

type Page struct {
	Thread   model.Thread
	BodyHTML template.HTML
	View     View
}

func NewPage(thread model.Thread, view View) Page {
	return Page{
		Thread:   thread,
		BodyHTML: template.HTML(MarkdownToHTML(thread.Body)),
		View:     view,
	}
}

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	// BodyHTML is escaped by EscapeBody before it gets here.
	"body": func(s string) template.HTML { return template.HTML(s) },
}).Parse(`<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<title>{{.Thread.Title}}</title>
</head>
<body>
<article class="thread" data-thread-id="{{.Thread.Id}}">
<h1>{{.Thread.Title}}</h1>
<div class="thread-body">{{.BodyHTML}}</div>
</article>
{{with .View.Banner}}<div class="reply-banner{{if .IsDefault}} default{{end}}" data-target-id="{{.TargetID}}">{{.Text}}</div>{{end}}
<section class="comments">
{{if .View.Empty}}<p class="empty">{{.View.EmptyMessage}}</p>{{end}}
{{range .View.Nodes}}{{template "node" .}}{{end}}
</section>
</body>
</html>
{{define "node"}}<div class="comment depth-{{.Depth}}{{if .Selected}} selected{{end}}" id="c-{{.ID}}"{{if .Hidden}} hidden{{end}}>
<header><span class="number">{{.Number}}</span> <span class="author">{{.Author}}</span> <time datetime="{{.CreatedAt.Format "2006-01-02T15:04:05Z07:00"}}">{{.RelTime}}</time></header>
<div class="content">{{body .BodyHTML}}</div>
{{if .Images}}<div class="gallery">{{range .Images}}<img src="{{.}}" loading="lazy" alt="">{{end}}</div>{{end}}
<div class="actions">
<button class="like" data-id="{{.ID}}">いいね {{.LikeCount}}</button>
<button class="reply" data-id="{{.ID}}">返信</button>
{{if eq .Moderation "request_deletion"}}<a class="request-deletion" data-id="{{.ID}}">削除依頼</a>{{else}}<a class="report" data-id="{{.ID}}">通報</a>{{end}}
</div>
{{with .Toggle}}<button class="toggle" aria-expanded="{{.Expanded}}">{{.Label}}</button>{{end}}
{{if .Children}}<div class="children">{{range .Children}}{{template "node" .}}{{end}}</div>{{end}}
</div>
{{end}}`))

func WritePage(w io.Writer, page Page) error {
	return pageTemplate.Execute(w, page)
}
