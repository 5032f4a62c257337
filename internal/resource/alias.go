package resource

import (
	"io"

	"github.com/BurntSushi/toml"

	"cif/internal/cerr"
)

// aliasFile is the on-disk shape of an alias table: a flat map from
// logical resource name to the path or key a base Provider understands.
type aliasFile struct {
	Aliases map[string]string `toml:"aliases"`
}

// AliasProvider indirects resource names through a TOML-declared alias
// table before delegating to a base Provider. A name absent from the
// table is passed through to the base provider unchanged, so callers
// may mix aliased and raw names freely.
type AliasProvider struct {
	aliases map[string]string
	base    Provider
}

// NewAliasProvider loads the alias table from path and wraps base.
func NewAliasProvider(path string, base Provider) (*AliasProvider, error) {
	var af aliasFile
	if _, err := toml.DecodeFile(path, &af); err != nil {
		return nil, &cerr.IoError{Op: "decode alias file " + path, Err: err}
	}
	return &AliasProvider{aliases: af.Aliases, base: base}, nil
}

func (p *AliasProvider) Open(name string) (io.ReadCloser, error) {
	if target, ok := p.aliases[name]; ok {
		name = target
	}
	return p.base.Open(name)
}
