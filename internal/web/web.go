// Package web holds the embedded HTML templates.
package web

import (
	"embed"         // Embedded templates
	"html/template" // HTML rendering
	"strconv"       // Application id suffixes
	"strings"       // Flash category parsing

	"dorm_booking/internal/domain" // Status helpers
	"dorm_booking/internal/flash"  // Flash messages
)

//go:embed templates/*.html
var files embed.FS

// Funcs are the helpers available inside templates.
var Funcs = template.FuncMap{
	"statusStep": func(s domain.Status) int { return s.Step() },
	"statuses":   func() []domain.Status { return domain.Statuses },
	// general drops per-application messages, which are shown beside their application
	"general": func(msgs []flash.Message) []flash.Message {
		var out []flash.Message
		for _, m := range msgs {
			if !strings.Contains(m.Category, "_") {
				out = append(out, m)
			}
		}
		return out
	},
	"forApplication": func(msgs []flash.Message, id uint) []flash.Message {
		var out []flash.Message
		for _, m := range msgs {
			if strings.HasSuffix(m.Category, "_"+strconv.FormatUint(uint64(id), 10)) {
				out = append(out, m)
			}
		}
		return out
	},
	"category": func(m flash.Message) string {
		if i := strings.Index(m.Category, "_"); i >= 0 {
			return m.Category[:i]
		}
		return m.Category
	},
}

// Templates parses every page template.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(Funcs).ParseFS(files, "templates/*.html"))
}
