package reconcile

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"discogsrec/internal/discogs"
)

// previewTmpl renders the small HTML card OpenRefine shows when hovering a
// candidate. Kept deliberately plain; it is displayed inside a 400x300 iframe.
var previewTmpl = template.Must(template.New("preview").Parse(`<html>
<body>
	<h1>{{.Title}}</h1>
	<p><strong>Artist:</strong> {{.Artists}}</p>
	<p><strong>Label:</strong> {{.Labels}}</p>
	<p><strong>Catalog Number:</strong> {{.CatNo}}</p>
	<p><strong>Year:</strong> {{.Year}}</p>
	<p><strong>Genres:</strong> {{.Genres}}</p>
	<p><strong>Styles:</strong> {{.Styles}}</p>
</body>
</html>
`))

// previewData is the flattened view of a Discogs resource for the template.
type previewData struct {
	Title   string
	Artists string
	Labels  string
	CatNo   string
	Year    string
	Genres  string
	Styles  string
}

// handlePreview fetches entity details and renders the preview card.
func (s *Service) handlePreview(w http.ResponseWriter, r *http.Request) {
	entityType := r.PathValue("entityType")
	id := r.PathValue("id")

	res, err := s.client.Resource(r.Context(), entityType, id)
	if err != nil {
		s.log.Warn("preview lookup failed", "type", entityType, "id", id, "err", err)
		http.Error(w, fmt.Sprintf("Error fetching preview: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := previewTmpl.Execute(w, buildPreview(res)); err != nil {
		s.log.Warn("preview render failed", "err", err)
	}
}

// buildPreview flattens a resource into display strings, substituting
// placeholders for absent fields.
func buildPreview(res *discogs.Resource) previewData {
	title := res.Title
	if title == "" {
		// Artist resources carry a name rather than a title.
		title = res.Name
	}
	if title == "" {
		title = "No Title"
	}

	labels := make([]string, 0, len(res.Labels))
	for _, l := range res.Labels {
		labels = append(labels, l.Name)
	}
	artists := make([]string, 0, len(res.Artists))
	for _, a := range res.Artists {
		artists = append(artists, a.Name)
	}

	catno := "N/A"
	if len(res.Labels) > 0 && res.Labels[0].CatNo != "" {
		catno = res.Labels[0].CatNo
	}
	year := "Unknown"
	if res.Year != 0 {
		year = fmt.Sprintf("%d", res.Year)
	}

	return previewData{
		Title:   title,
		Artists: strings.Join(artists, ", "),
		Labels:  strings.Join(labels, ", "),
		CatNo:   catno,
		Year:    year,
		Genres:  strings.Join(res.Genres, ", "),
		Styles:  strings.Join(res.Styles, ", "),
	}
}
