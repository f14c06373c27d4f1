package render

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"strings"
	"time"

	"dmrmonitor/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"join":  func(items []string) string { return strings.Join(items, ", ") },
	"date":  func(t time.Time) string { return t.Format("2006-01-02") },
	"clock": func(t time.Time) string { return t.Format("15:04:05") },
}

type RendererInterface interface {
	Topology(view *models.StateView, lastHeard []models.CallRecord) (string, error)
	Bridges(view *models.StateView) (string, error)
	Index(w io.Writer, page IndexPage) error
}

type IndexPage struct {
	ReportName    string
	SocketPath    string
	ClientTimeout int
}

type topologyData struct {
	View      *models.StateView
	LastHeard []models.CallRecord
}

type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("monitor").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Topology renders the peer table of every system followed by the
// last-heard window.
func (r *Renderer) Topology(view *models.StateView, lastHeard []models.CallRecord) (string, error) {
	return r.execute("topology", topologyData{View: view, LastHeard: lastHeard})
}

func (r *Renderer) Bridges(view *models.StateView) (string, error) {
	return r.execute("bridges", view)
}

func (r *Renderer) Index(w io.Writer, page IndexPage) error {
	return r.tmpl.ExecuteTemplate(w, "index", page)
}
