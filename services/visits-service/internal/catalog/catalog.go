// Package catalog exposes the read-only unit/prototype listing shown to
// prospects. The listing ships as a JSON file with the service; a load
// failure degrades to an empty catalog.
package catalog

import (
	"encoding/json"
	"os"
	"strings"
)

type Prototype struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	AreaM2      float64 `json:"areaM2"`
	Bedrooms    int     `json:"bedrooms"`
	FullBaths   int     `json:"fullBaths"`
	HalfBaths   int     `json:"halfBaths"`
	Parking     string  `json:"parking"`
	Description string  `json:"description,omitempty"`
}

type Catalog struct {
	prototypes []Prototype
}

type catalogFile struct {
	Prototypes []Prototype `json:"prototypes"`
}

func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return &Catalog{}, err
	}
	var doc catalogFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		return &Catalog{}, err
	}
	return &Catalog{prototypes: doc.Prototypes}, nil
}

func (c *Catalog) All() []Prototype {
	return c.prototypes
}

func (c *Catalog) ByID(id string) (Prototype, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, p := range c.prototypes {
		if strings.ToLower(p.ID) == id {
			return p, true
		}
	}
	return Prototype{}, false
}

// MatchName returns the first prototype whose name appears in the text,
// case-insensitively. Used to detect which unit a conversation is about.
func (c *Catalog) MatchName(text string) (string, bool) {
	text = strings.ToLower(text)
	for _, p := range c.prototypes {
		if p.Name == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(p.Name)) {
			return p.Name, true
		}
	}
	return "", false
}
