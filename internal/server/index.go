package server

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"
)

//go:embed index.html.tmpl
var indexSource string

var indexTemplate = template.Must(template.New("index").Parse(indexSource))

type indexData struct {
	Title   string
	Filters []filterButton
	HasTree bool
}

type filterButton struct {
	Key, Label, Color string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	st := s.ctl.State()
	data := indexData{Title: s.cfg.Title, HasTree: s.ctl.HasTree()}
	for _, b := range st.Filters {
		data.Filters = append(data.Filters, filterButton{Key: b.Key, Label: b.Label, Color: b.Color})
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeBytes(w, "text/html; charset=utf-8", buf.Bytes())
}
