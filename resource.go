package cif

import "cif/internal/resource"

// Resource provider and validator factory (spec.md §5/§6): callers that
// need dictionaries loaded by logical name rather than a fixed path
// build a Provider and a ValidatorFactory over it instead of calling
// LoadDictionaryFile directly.
type (
	ResourceProvider = resource.Provider
	DirProvider      = resource.DirProvider
	AliasProvider    = resource.AliasProvider
	ValidatorFactory = resource.Factory
)

func NewDirProvider(dir string) *DirProvider { return resource.NewDirProvider(dir) }

func NewAliasProvider(tomlPath string, base ResourceProvider) (*AliasProvider, error) {
	return resource.NewAliasProvider(tomlPath, base)
}

func NewValidatorFactory(provider ResourceProvider, strict bool) *ValidatorFactory {
	return resource.NewFactory(provider, strict)
}
