package reconcile

// EntityType identifies a reconcilable Discogs entity class.
type EntityType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// URLTemplate carries a templated URL in service metadata.
type URLTemplate struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Metadata is the reconciliation service manifest returned for requests
// without queries.
type Metadata struct {
	Name            string       `json:"name"`
	IdentifierSpace string       `json:"identifierSpace"`
	SchemaSpace     string       `json:"schemaSpace"`
	DefaultTypes    []EntityType `json:"defaultTypes"`
	View            URLTemplate  `json:"view"`
	Preview         URLTemplate  `json:"preview"`
}

// defaultTypes lists the entity classes the service reconciles against.
// Discogs exposes more (labels, tracks, ...) but these three are the ones
// with useful search behavior.
var defaultTypes = []EntityType{
	{ID: "/discogs/master", Name: "Master"},
	{ID: "/discogs/release", Name: "Release"},
	{ID: "/discogs/artist", Name: "Artist"},
}

// serviceMetadata builds the manifest.
func serviceMetadata() Metadata {
	return Metadata{
		Name:            "Discogs Reconciliation Service",
		IdentifierSpace: "http://www.discogs.com/",
		SchemaSpace:     "http://www.schema.org/",
		DefaultTypes:    defaultTypes,
		View:            URLTemplate{URL: "{{id}}"},
		Preview:         URLTemplate{URL: "{{id}}/preview", Width: 400, Height: 300},
	}
}
