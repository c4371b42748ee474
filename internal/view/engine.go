package view

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/genesislab/siteadmin/web"
)

// Engine renders the embedded HTML mail templates.
type Engine struct {
	templates *template.Template
	appName   string
	now       func() time.Time
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Subject string
	AppName string
	Year    int
	Data    any
}

// NewEngine parses templates at build-time.
func NewEngine(appName string) (*Engine, error) {
	funcMap := template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02 Jan 2006 15:04")
		},
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates, "templates/mail/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl, appName: appName, now: time.Now}, nil
}

// Render executes a named template and returns the HTML body.
func (e *Engine) Render(name, subject string, data any) (string, error) {
	if e == nil {
		return "", fmt.Errorf("template engine not initialised")
	}
	var buf bytes.Buffer
	err := e.templates.ExecuteTemplate(&buf, name, TemplateData{
		Subject: subject,
		AppName: e.appName,
		Year:    e.now().Year(),
		Data:    data,
	})
	if err != nil {
		return "", fmt.Errorf("view: render %s: %w", name, err)
	}
	return buf.String(), nil
}
