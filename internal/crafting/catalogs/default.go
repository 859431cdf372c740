package catalogs

import (
	_ "embed"
	"sync"
)

//go:embed taxonomy.yaml
var taxonomyYAML []byte

var (
	defaultOnce sync.Once
	defaultReg  *Registry
	defaultErr  error
)

// LoadDefault builds the embedded taxonomy once and returns the shared
// registry on every later call.
func LoadDefault() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultReg, defaultErr = Load(taxonomyYAML)
	})
	return defaultReg, defaultErr
}

// Default is LoadDefault for callers that cannot run without a taxonomy.
// It panics if the embedded document is corrupt.
func Default() *Registry {
	r, err := LoadDefault()
	if err != nil {
		panic(err)
	}
	return r
}
