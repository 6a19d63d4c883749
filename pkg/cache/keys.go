package cache

// Keyer builds cache keys. Every method takes the hash of the canonical
// document encoding (see [Hash]) and the options that shape the result.
type Keyer interface {
	ResultKey(docHash string, opts ResultKeyOpts) string
	LayoutKey(docHash string, opts LayoutKeyOpts) string
	RelationshipsKey(docHash string, opts RelationshipsKeyOpts) string
}

// ResultKeyOpts are the inputs of a combined kinship + layout run.
type ResultKeyOpts struct {
	RootID      string            `json:"root_id"`
	SiblingGap  float64           `json:"sibling_gap"`
	LevelHeight float64           `json:"level_height"`
	Overrides   map[string]string `json:"overrides,omitempty"`
}

// LayoutKeyOpts are the inputs of a layout run.
type LayoutKeyOpts struct {
	RootID      string  `json:"root_id"`
	SiblingGap  float64 `json:"sibling_gap"`
	LevelHeight float64 `json:"level_height"`
}

// RelationshipsKeyOpts are the inputs of a kinship run.
type RelationshipsKeyOpts struct {
	RootID    string            `json:"root_id"`
	Overrides map[string]string `json:"overrides,omitempty"`
}

// DefaultKeyer prefixes keys with their kind and hashes the options.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ResultKey returns "result:<sha256>".
func (DefaultKeyer) ResultKey(docHash string, opts ResultKeyOpts) string {
	return hashKey("result", docHash, opts)
}

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", docHash, opts)
}

// RelationshipsKey returns "relationships:<sha256>".
func (DefaultKeyer) RelationshipsKey(docHash string, opts RelationshipsKeyOpts) string {
	return hashKey("relationships", docHash, opts)
}
