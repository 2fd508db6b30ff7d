package crop

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed data/crops.yaml
var embeddedCatalog []byte

type catalogFile struct {
	GeneralPhotoTips []string             `yaml:"general_photo_tips"`
	Aliases          map[string]string    `yaml:"aliases"`
	Crops            map[string]Reference `yaml:"crops"`
}

// PhotoTips are photography hints shown before image upload.
type PhotoTips struct {
	General []string `json:"general"`
	Crop    []string `json:"crop"`
}

// Catalog is the read-only crop reference dataset.
type Catalog struct {
	refs        *Table[Reference]
	aliases     map[string]string
	generalTips []string
}

// DefaultCatalog parses the embedded dataset.
func DefaultCatalog() (*Catalog, error) {
	return NewCatalog(embeddedCatalog)
}

// NewCatalog parses a YAML dataset. Every crop must have a name, a valid
// water need and a humidity in 0-100, and the dataset must contain a
// default entry. Aliases must point at existing crops.
func NewCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse crop catalog: %w", err)
	}

	entries := make(map[string]Reference, len(file.Crops))
	for id, ref := range file.Crops {
		id = NormalizeID(id)
		if ref.Name == "" {
			return nil, fmt.Errorf("crop %q: missing name", id)
		}
		if !ref.WaterNeeds.Valid() {
			return nil, fmt.Errorf("crop %q: invalid water needs %q", id, ref.WaterNeeds)
		}
		if ref.OptimalHumidity < 0 || ref.OptimalHumidity > 100 {
			return nil, fmt.Errorf("crop %q: humidity %d out of range", id, ref.OptimalHumidity)
		}
		ref.ID = id
		entries[id] = ref
	}

	refs, err := NewTable(entries)
	if err != nil {
		return nil, fmt.Errorf("crop catalog: %w", err)
	}

	aliases := make(map[string]string, len(file.Aliases))
	for alias, target := range file.Aliases {
		target = NormalizeID(target)
		if !refs.Has(target) || target == DefaultID {
			return nil, fmt.Errorf("alias %q points at unknown crop %q", alias, target)
		}
		aliases[NormalizeID(alias)] = target
	}

	return &Catalog{
		refs:        refs,
		aliases:     aliases,
		generalTips: file.GeneralPhotoTips,
	}, nil
}

// Resolve maps an id or alias to its canonical crop id. Unknown ids are
// returned normalized but otherwise unchanged.
func (c *Catalog) Resolve(id string) string {
	id = NormalizeID(id)
	if target, ok := c.aliases[id]; ok {
		return target
	}
	return id
}

// Get returns the reference for id, or ErrUnknownCrop. The default entry
// is not addressable by id.
func (c *Catalog) Get(id string) (Reference, error) {
	id = c.Resolve(id)
	if id == DefaultID || !c.refs.Has(id) {
		return Reference{}, fmt.Errorf("%w: %q", ErrUnknownCrop, id)
	}
	return c.refs.Get(id), nil
}

// Lookup returns the reference for id, falling back to the default entry.
func (c *Catalog) Lookup(id string) Reference {
	return c.refs.Get(c.Resolve(id))
}

// Default returns the fallback reference.
func (c *Catalog) Default() Reference {
	return c.refs.Default()
}

// Contains reports whether id (or an alias) names a catalog crop.
func (c *Catalog) Contains(id string) bool {
	id = c.Resolve(id)
	return id != DefaultID && c.refs.Has(id)
}

// IDs returns the canonical crop ids, sorted.
func (c *Catalog) IDs() []string {
	return c.refs.IDs()
}

// List returns every crop except the default, sorted by name.
func (c *Catalog) List() []Reference {
	ids := c.refs.IDs()
	out := make([]Reference, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.refs.Get(id))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of crops, excluding the default.
func (c *Catalog) Len() int {
	return len(c.refs.IDs())
}

// PhotoTips returns the general tips plus any crop-specific ones.
func (c *Catalog) PhotoTips(id string) (PhotoTips, error) {
	ref, err := c.Get(id)
	if err != nil {
		return PhotoTips{}, err
	}
	tips := PhotoTips{
		General: append([]string(nil), c.generalTips...),
		Crop:    append([]string{}, ref.PhotoTips...),
	}
	return tips, nil
}
