package transformer

import (
	"fmt"

	"github.com/WrestlingNewsHub/internal/domain"
)

// Get returns the listing transformer registered under name.
func Get(name string) (domain.Transformer, error) {
	switch name {
	case TwitterName:
		return NewTwitterTransformer(), nil
	case NitterName:
		return NewNitterTransformer(), nil
	default:
		return nil, fmt.Errorf("transformer not found: %s", name)
	}
}
