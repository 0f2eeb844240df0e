package http

import (
	"embed"
	"html/template"
	"maps"
	"time"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

func loadTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Local().Format("2006-01-02")
		},
		"datetime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Local().Format("2006-01-02 15:04")
		},
	}
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

// render fills in what every page shows: the session and any pending notice.
func (h *Handler) render(c *gin.Context, status int, name, title string, data gin.H) {
	page := gin.H{
		"Title":   title,
		"Session": currentSession(c),
		"Flash":   h.popFlash(c),
	}
	maps.Copy(page, data)
	c.HTML(status, name, page)
}
