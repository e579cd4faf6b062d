package discogs

// SearchResponse is the decoded body of a database search call.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

// SearchResult is one hit from a database search. Only the fields the
// reconciliation service consumes are decoded.
type SearchResult struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	CatNo string `json:"catno"`
}

// Resource holds the detail fields shown in preview windows. The same shape
// serves releases, masters and artists; absent fields stay zero.
type Resource struct {
	Title   string   `json:"title"`
	Year    int      `json:"year"`
	Genres  []string `json:"genres"`
	Styles  []string `json:"styles"`
	Labels  []Label  `json:"labels"`
	Artists []Artist `json:"artists"`
	Name    string   `json:"name"` // artists carry name instead of title
}

// Label is a release label reference.
type Label struct {
	Name  string `json:"name"`
	CatNo string `json:"catno"`
}

// Artist is a release artist reference.
type Artist struct {
	Name string `json:"name"`
}
