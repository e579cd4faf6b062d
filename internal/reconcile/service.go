package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"discogsrec/internal/discogs"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"github.com/rs/cors"
)

// maxCandidates caps each result list; OpenRefine only surfaces the top
// few matches.
const maxCandidates = 3

// Searcher is the slice of the Discogs client the service needs. Declared
// here so tests can substitute a fake without HTTP.
type Searcher interface {
	Search(ctx context.Context, query, entityType string) (*discogs.SearchResponse, error)
	Resource(ctx context.Context, entityType, id string) (*discogs.Resource, error)
}

// Service handles reconciliation requests against a Discogs backend.
type Service struct {
	client Searcher
	meta   Metadata
	log    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger. Defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.log = l
	}
}

// New builds a Service on top of the given Discogs client.
func New(client Searcher, opts ...Option) *Service {
	s := &Service{
		client: client,
		meta:   serviceMetadata(),
		log:    slog.Default().With("component", "reconcile"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the service's HTTP handler with CORS applied to every
// route, as OpenRefine issues cross-origin requests.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/reconcile", s.handleReconcile)
	mux.HandleFunc("GET /{entityType}/{id}/preview", s.handlePreview)
	return cors.AllowAll().Handler(mux)
}

// Query is one keyed reconciliation query from a batch.
type Query struct {
	Query string `json:"query"`
	Type  string `json:"type"`
}

// Candidate is one scored reconciliation match.
type Candidate struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Score int          `json:"score"`
	Match bool         `json:"match"`
	Type  []EntityType `json:"type"`
	CatNo string       `json:"catno"`
}

// queryResult wraps a candidate list in the envelope the protocol expects.
type queryResult struct {
	Result []Candidate `json:"result"`
}

// handleReconcile answers both halves of the protocol: a batch of queries
// in the form-encoded queries parameter, or the service metadata when the
// parameter is absent.
func (s *Service) handleReconcile(w http.ResponseWriter, r *http.Request) {
	raw := r.FormValue("queries")
	if raw == "" {
		s.writeJSON(w, r, s.meta)
		return
	}

	var queries map[string]Query
	if err := json.Unmarshal([]byte(raw), &queries); err != nil {
		http.Error(w, fmt.Sprintf("malformed queries parameter: %v", err), http.StatusBadRequest)
		return
	}
	s.log.Debug("reconcile batch", "queries", len(queries))

	results := make(map[string]queryResult, len(queries))
	for key, q := range queries {
		if q.Type == "" {
			results[key] = queryResult{Result: []Candidate{}}
			continue
		}
		results[key] = queryResult{Result: s.search(r.Context(), q.Query, q.Type)}
	}
	s.writeJSON(w, r, results)
}

// search runs one Discogs query and scores the hits. Backend failures
// degrade to an empty candidate list; reconciliation batches should not
// fail wholesale because one lookup did.
func (s *Service) search(ctx context.Context, query, queryType string) []Candidate {
	out := []Candidate{}

	typeMeta, ok := lookupType(queryType)
	if !ok {
		s.log.Warn("unknown query type", "type", queryType)
		return out
	}
	entityType := typeMeta.entity

	resp, err := s.client.Search(ctx, query, entityType)
	if err != nil {
		s.log.Warn("discogs search failed", "query", query, "err", err)
		return out
	}

	for _, item := range resp.Results {
		name := item.Title
		score := 0
		if name != "" {
			score = fuzzy.TokenSortRatio(query, name)
		} else {
			name = "Unknown"
		}
		catno := item.CatNo
		if catno == "" {
			catno = "N/A"
		}
		out = append(out, Candidate{
			ID:    entityURI(entityType, item.ID),
			Name:  name,
			Score: score,
			Match: strings.EqualFold(query, item.Title),
			Type:  []EntityType{typeMeta.EntityType},
			CatNo: catno,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > maxCandidates {
		out = out[:maxCandidates]
	}
	return out
}

// typeInfo pairs protocol metadata with the bare Discogs entity name.
type typeInfo struct {
	EntityType
	entity string
}

// lookupType resolves a protocol type ID like "/discogs/release" against
// the supported set.
func lookupType(queryType string) (typeInfo, bool) {
	for _, t := range defaultTypes {
		if t.ID == queryType {
			parts := strings.Split(queryType, "/")
			return typeInfo{EntityType: t, entity: parts[len(parts)-1]}, true
		}
	}
	return typeInfo{}, false
}

// entityURI builds the public Discogs URL used as a candidate identifier.
func entityURI(entityType string, id int) string {
	return fmt.Sprintf("https://www.discogs.com/%s/%d", entityType, id)
}

// writeJSON writes v as JSON, or as JSONP when the request carries a
// callback parameter.
func (s *Service) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if callback := r.URL.Query().Get("callback"); callback != "" {
		w.Header().Set("Content-Type", "text/javascript")
		fmt.Fprintf(w, "%s(%s)", callback, body)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}
