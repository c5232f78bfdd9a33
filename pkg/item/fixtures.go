// lootfilter/pkg/item/fixtures.go

package item

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Fixture is the YAML document format used for item sample files:
//
//	items:
//	  - name: Exalted Orb
//	    itemLevel: 70
//	    ...
type Fixture struct {
	Items []Item `yaml:"items"`
}

// LoadItems decodes a fixture document and resets every item's presentation.
func LoadItems(r io.Reader) ([]Item, error) {
	var fx Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decoding item fixture: %w", err)
	}
	for i := range fx.Items {
		fx.Items[i].ResetPresentation()
	}
	return fx.Items, nil
}

func LoadItemsFile(path string) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening item fixture: %w", err)
	}
	defer f.Close()
	return LoadItems(f)
}

// WriteItems encodes items as a fixture document.
func WriteItems(w io.Writer, items []Item) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Fixture{Items: items}); err != nil {
		return fmt.Errorf("encoding item fixture: %w", err)
	}
	return enc.Close()
}
