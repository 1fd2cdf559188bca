package app

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"time"

	"github.com/navbryce/next-dorm-blog/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

const (
	PreviewLength = 100
	// same shape as an en-US toLocaleString
	DisplayTimeLayout = "1/2/2006, 3:04:05 PM"
)

type Renderer struct {
	templates *template.Template
	location  *time.Location
}

type detailPage struct {
	Post *model.PostSummary
}

func NewRenderer(location *time.Location) (*Renderer, error) {
	if location == nil {
		location = time.Local
	}
	r := &Renderer{location: location}
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"preview":     Preview,
		"displayTime": r.DisplayTime,
		"deref":       func(ts *model.Timestamp) model.Timestamp { return *ts },
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.templates = tmpl
	return r, nil
}

// RenderPage writes the full blog page.
func (r *Renderer) RenderPage(w io.Writer, state BlogState) error {
	return r.templates.ExecuteTemplate(w, "blog.html", state)
}

// RenderMore writes only the posts and controls, for appending to an existing page.
func (r *Renderer) RenderMore(w io.Writer, state BlogState) error {
	return r.templates.ExecuteTemplate(w, "posts", state)
}

func (r *Renderer) RenderPost(w io.Writer, post *model.PostSummary) error {
	return r.templates.ExecuteTemplate(w, "post.html", detailPage{Post: post})
}

func (r *Renderer) RenderNotFound(w io.Writer) error {
	return r.templates.ExecuteTemplate(w, "post.html", detailPage{})
}

// StaticFS serves the stylesheet the templates link to.
func StaticFS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

func (r *Renderer) DisplayTime(ts model.Timestamp) string {
	return ts.Time().In(r.location).Format(DisplayTimeLayout)
}

// Preview cuts content to PreviewLength characters, marking the cut with "...".
func Preview(content string) string {
	runes := []rune(content)
	if len(runes) <= PreviewLength {
		return content
	}
	return string(runes[:PreviewLength]) + "..."
}
