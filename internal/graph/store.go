// Package graph holds the device knowledge graph: subject-predicate-object
// triples evaluated by a Mangle program that derives one device_spec row per
// smartphone. The store is loaded once and never mutated afterwards, so
// concurrent readers need no locking.
package graph

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	_ "github.com/google/mangle/builtin"
	"github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"
	"github.com/google/mangle/parse"
	"github.com/google/mangle/symbols"
)

// Graph status values reported by the health endpoint
const (
	StatusLoaded      = "Loaded"
	StatusEmpty       = "Empty"
	StatusUnavailable = "Unavailable"
)

// ErrMalformed marks knowledge bases that parse but break the device schema
var ErrMalformed = errors.New("malformed knowledge base")

// schema derives device_spec from the raw triples. Knowledge base files
// only contribute triple facts.
const schema = `
Decl triple(Subject, Predicate, Object).

device_spec(Id, Model, Brand, Ram, Processor, Storage) :-
    triple(Id, /rdf/type, /ex/smartphone),
    triple(Id, /ex/has_model, Model),
    triple(Id, /ex/has_brand, Brand),
    triple(Id, /ex/has_ram, Ram),
    triple(Id, /ex/has_processor, Processor),
    triple(Id, /ex/has_storage, Storage).
`

var (
	tripleSym     = ast.PredicateSym{Symbol: "triple", Arity: 3}
	deviceSpecSym = ast.PredicateSym{Symbol: "device_spec", Arity: 6}
)

// Device is one derived device_spec row
type Device struct {
	Subject   string
	ID        string
	Model     string
	Brand     string
	RAM       int
	Processor string
	Storage   int
}

// Store is the read-only knowledge graph
type Store struct {
	facts   factstore.FactStore
	triples int
	source  string
}

// Load reads and evaluates a knowledge base file
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open knowledge base %s: %w", path, err)
	}
	defer f.Close()

	s, err := LoadReader(f)
	if err != nil {
		return nil, fmt.Errorf("load knowledge base %s: %w", path, err)
	}
	s.source = path
	return s, nil
}

// LoadReader parses triple facts from r and evaluates the device schema over them
func LoadReader(r io.Reader) (*Store, error) {
	kb, err := parse.Unit(r)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	for _, clause := range kb.Clauses {
		if len(clause.Premises) > 0 || clause.Head.Predicate != tripleSym {
			return nil, fmt.Errorf("%w: only triple/3 facts are allowed, got %s", ErrMalformed, clause.Head.Predicate.Symbol)
		}
	}
	for _, decl := range kb.Decls {
		// every parsed unit carries an implicit Package() decl
		if decl.DeclaredAtom.Predicate == symbols.Package {
			continue
		}
		return nil, fmt.Errorf("%w: declarations are not allowed in knowledge base files", ErrMalformed)
	}

	schemaUnit, err := parse.Unit(strings.NewReader(schema))
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	unit := parse.SourceUnit{
		Clauses: append(schemaUnit.Clauses, kb.Clauses...),
		Decls:   schemaUnit.Decls,
	}
	programInfo, err := analysis.AnalyzeOneUnit(unit, nil)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	store := factstore.NewSimpleInMemoryStore()
	if _, err := engine.EvalProgramWithStats(programInfo, store); err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}

	s := &Store{facts: store}
	err = store.GetFacts(ast.NewQuery(tripleSym), func(ast.Atom) error {
		s.triples++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("count triples: %w", err)
	}
	return s, nil
}

// Triples returns the number of triples in the graph
func (s *Store) Triples() int {
	if s == nil {
		return 0
	}
	return s.triples
}

// Source returns the file the graph was loaded from, if any
func (s *Store) Source() string {
	if s == nil {
		return ""
	}
	return s.source
}

// Status reports Loaded, Empty or Unavailable (nil store)
func (s *Store) Status() string {
	switch {
	case s == nil || s.facts == nil:
		return StatusUnavailable
	case s.triples == 0:
		return StatusEmpty
	default:
		return StatusLoaded
	}
}

// Devices returns every smartphone in the graph, one row per identifier,
// ordered by identifier.
func (s *Store) Devices(ctx context.Context) ([]Device, error) {
	if s == nil || s.facts == nil {
		return nil, errors.New("knowledge graph not loaded")
	}

	var devices []Device
	err := s.facts.GetFacts(ast.NewQuery(deviceSpecSym), func(atom ast.Atom) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		d, err := deviceFromAtom(atom)
		if err != nil {
			return err
		}
		devices = append(devices, d)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(devices, func(i, j int) bool {
		a, b := devices[i], devices[j]
		if a.ID != b.ID {
			return a.ID < b.ID
		}
		if a.Model != b.Model {
			return a.Model < b.Model
		}
		if a.Brand != b.Brand {
			return a.Brand < b.Brand
		}
		if a.RAM != b.RAM {
			return a.RAM < b.RAM
		}
		if a.Storage != b.Storage {
			return a.Storage < b.Storage
		}
		return a.Processor < b.Processor
	})

	// a subject with repeated properties derives several rows; keep the first
	unique := devices[:0]
	for i, d := range devices {
		if i > 0 && d.ID == devices[i-1].ID {
			continue
		}
		unique = append(unique, d)
	}
	return unique, nil
}

func deviceFromAtom(atom ast.Atom) (Device, error) {
	if len(atom.Args) != deviceSpecSym.Arity {
		return Device{}, fmt.Errorf("%w: device_spec has %d args", ErrMalformed, len(atom.Args))
	}

	subject, err := nameArg(atom.Args[0])
	if err != nil {
		return Device{}, err
	}
	model, err := stringArg(atom.Args[1], "model", subject)
	if err != nil {
		return Device{}, err
	}
	brand, err := stringArg(atom.Args[2], "brand", subject)
	if err != nil {
		return Device{}, err
	}
	ram, err := numberArg(atom.Args[3], "ram", subject)
	if err != nil {
		return Device{}, err
	}
	processor, err := stringArg(atom.Args[4], "processor", subject)
	if err != nil {
		return Device{}, err
	}
	storage, err := numberArg(atom.Args[5], "storage", subject)
	if err != nil {
		return Device{}, err
	}

	return Device{
		Subject:   subject,
		ID:        StripID(subject),
		Model:     model,
		Brand:     brand,
		RAM:       ram,
		Processor: processor,
		Storage:   storage,
	}, nil
}

// StripID turns /gadget/sku_galaxy_s24 into galaxy_s24
func StripID(subject string) string {
	id := subject
	if i := strings.LastIndex(id, "/"); i >= 0 {
		id = id[i+1:]
	}
	return strings.TrimPrefix(id, "sku_")
}

func nameArg(term ast.BaseTerm) (string, error) {
	c, ok := term.(ast.Constant)
	if !ok || c.Type != ast.NameType {
		return "", fmt.Errorf("%w: subject %v is not a name", ErrMalformed, term)
	}
	return c.Symbol, nil
}

func stringArg(term ast.BaseTerm, field, subject string) (string, error) {
	c, ok := term.(ast.Constant)
	if !ok || (c.Type != ast.StringType && c.Type != ast.NameType) {
		return "", fmt.Errorf("%w: %s of %s is not a string", ErrMalformed, field, subject)
	}
	return c.Symbol, nil
}

func numberArg(term ast.BaseTerm, field, subject string) (int, error) {
	c, ok := term.(ast.Constant)
	if !ok || c.Type != ast.NumberType {
		return 0, fmt.Errorf("%w: %s of %s is not a number", ErrMalformed, field, subject)
	}
	if c.NumValue < 0 {
		return 0, fmt.Errorf("%w: %s of %s is negative", ErrMalformed, field, subject)
	}
	return int(c.NumValue), nil
}
