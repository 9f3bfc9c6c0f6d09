package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/saldoboek/saldoboek/internal/model"
)

// Parser converts a bank statement file into normalized transactions.
type Parser interface {
	Parse(path string, acct model.AccountType) (*ParseResult, error)
	Format() string
}

type registryEntry struct {
	token  string
	parser Parser
}

// Registry maps file-name tokens to parsers. Tokens are checked in
// registration order.
type Registry struct {
	entries []registryEntry
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a parser for files whose name contains token. Panics on
// duplicate token.
func (r *Registry) Register(token string, p Parser) {
	key := strings.ToUpper(token)
	for _, e := range r.entries {
		if e.token == key {
			panic("duplicate parser token: " + key)
		}
	}
	r.entries = append(r.entries, registryEntry{token: key, parser: p})
}

// Identify returns the parser for the first token contained in the
// upper-cased base name of fileName.
func (r *Registry) Identify(fileName string) (Parser, error) {
	name := strings.ToUpper(filepath.Base(fileName))
	for _, e := range r.entries {
		if strings.Contains(name, e.token) {
			return e.parser, nil
		}
	}
	return nil, &UnknownFormat{FileName: fileName}
}

// Get returns the parser with the given format name, or nil.
func (r *Registry) Get(format string) Parser {
	for _, e := range r.entries {
		if strings.EqualFold(e.parser.Format(), format) {
			return e.parser
		}
	}
	return nil
}

// Only returns a registry that hands every file to the parser of format,
// whatever its name.
func (r *Registry) Only(format string) (*Registry, error) {
	p := r.Get(format)
	if p == nil {
		formats := make([]string, len(r.entries))
		for i, e := range r.entries {
			formats[i] = e.parser.Format()
		}
		return nil, fmt.Errorf("unknown format %q, want one of %s", format, strings.Join(formats, ", "))
	}
	return &Registry{entries: []registryEntry{{parser: p}}}, nil
}

// Tokens returns the registered tokens in match order.
func (r *Registry) Tokens() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.token
	}
	return out
}

// DefaultRegistry returns a registry with all built-in parsers. currency is
// the fallback when a file carries none; empty means EUR.
func DefaultRegistry(currency string) *Registry {
	r := NewRegistry()
	r.Register("SNS", &SNSParser{DefaultCurrency: currency})
	r.Register("RABO", &RaboParser{DefaultCurrency: currency})
	return r
}
