// Package resource provides the resource provider and validator factory
// described by spec.md's concurrency and external-interfaces sections:
// a name -> byte stream lookup (optionally gzip-compressed, optionally
// indirected through a TOML alias table) and a mutex-guarded cache of
// the validators built from those streams.
package resource

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"

	"cif/internal/cerr"
)

var gzipMagic = [2]byte{0x1f, 0x8b}

// Provider resolves a logical resource name to a readable byte stream.
// The core never opens files itself; every dictionary or aliased lookup
// goes through a Provider.
type Provider interface {
	Open(name string) (io.ReadCloser, error)
}

// DirProvider resolves names as paths relative to Dir. A stream starting
// with the gzip magic bytes is transparently decompressed.
type DirProvider struct {
	Dir string
}

// NewDirProvider returns a DirProvider rooted at dir.
func NewDirProvider(dir string) *DirProvider {
	return &DirProvider{Dir: dir}
}

func (p *DirProvider) Open(name string) (io.ReadCloser, error) {
	path := filepath.Join(p.Dir, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, &cerr.IoError{Op: "open " + path, Err: err}
	}
	return maybeDecompress(f)
}

// maybeDecompress peeks the first two bytes of rc and wraps it in a
// gzip.Reader if they match the gzip magic number, closing the
// underlying stream along with the gzip reader on Close.
func maybeDecompress(rc io.ReadCloser) (io.ReadCloser, error) {
	br := bufio.NewReader(rc)
	peek, err := br.Peek(2)
	if err != nil {
		// stream shorter than the magic number: not gzip, hand it back
		// as-is (an empty or truncated resource is the caller's problem).
		return &bufReadCloser{r: br, c: rc}, nil
	}
	if peek[0] != gzipMagic[0] || peek[1] != gzipMagic[1] {
		return &bufReadCloser{r: br, c: rc}, nil
	}
	zr, err := gzip.NewReader(br)
	if err != nil {
		rc.Close()
		return nil, &cerr.IoError{Op: "gunzip", Err: err}
	}
	return &gzipReadCloser{zr: zr, underlying: rc}, nil
}

// bufReadCloser carries the bufio.Reader used to peek the magic number
// forward so none of the peeked bytes are lost to an uncompressed
// reader.
type bufReadCloser struct {
	r *bufio.Reader
	c io.Closer
}

func (b *bufReadCloser) Read(p []byte) (int, error) { return b.r.Read(p) }
func (b *bufReadCloser) Close() error               { return b.c.Close() }

type gzipReadCloser struct {
	zr         *gzip.Reader
	underlying io.Closer
}

func (g *gzipReadCloser) Read(p []byte) (int, error) { return g.zr.Read(p) }

func (g *gzipReadCloser) Close() error {
	err := g.zr.Close()
	if closeErr := g.underlying.Close(); err == nil {
		err = closeErr
	}
	return err
}
