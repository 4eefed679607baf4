package employee

import "context"

// Loader reads the full employee dataset from its backing source.
type Loader interface {
	Load(ctx context.Context) (*Dataset, error)
}
