// Package docstore keeps per-URI document state (text, version, AST,
// errors) in sync with editor edits. It follows the teacher's
// tooling.API shape (an outer RWMutex over a map of documents) but
// generalises the locking to true per-entry locks, as the specification
// requires: the outer lock is contended only on open/close, and each
// document has its own lock so readers of different documents, and
// readers of the same document, never block each other.
package docstore

import (
	"sync"

	"github.com/toon-lang/toon-lsp/internal/toon/ast"
	"github.com/toon-lang/toon-lsp/internal/toon/parser"
)

// Snapshot is a torn-read-free copy of a Document's state at one instant.
// Readers always observe either the pre-write or post-write snapshot in
// full, never a mix of old text with new errors.
type Snapshot struct {
	URI     string
	Text    string
	Version int
	AST     *ast.Document
	Errors  []*parser.ParseError
}

// Document is one open file's state, individually lock-guarded so
// concurrent edits to this document serialise on its own lock without
// contending the store's outer map lock.
type Document struct {
	uri string

	mu      sync.RWMutex
	text    string
	version int
	ast     *ast.Document
	errors  []*parser.ParseError
}

// Snapshot returns a consistent copy of the document's current state.
func (d *Document) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return Snapshot{URI: d.uri, Text: d.text, Version: d.version, AST: d.ast, Errors: d.errors}
}

// update re-parses text and atomically replaces text/version/ast/errors.
// Parsing runs before the lock is taken, so the write lock is held only
// long enough to swap four fields — never across the CPU-bound parse.
func (d *Document) update(text string, version int) {
	astDoc, errs := parser.ParseWithErrors(text)
	d.mu.Lock()
	d.text = text
	d.version = version
	d.ast = astDoc
	d.errors = errs
	d.mu.Unlock()
}

// Store is a concurrent per-URI map of Documents.
type Store struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{docs: make(map[string]*Document)}
}

// Open parses text and stores it under uri, replacing any prior entry.
func (s *Store) Open(uri, text string, version int) *Document {
	astDoc, errs := parser.ParseWithErrors(text)
	doc := &Document{uri: uri, text: text, version: version, ast: astDoc, errors: errs}
	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()
	return doc
}

// Change replaces the text, version, AST, and errors of an already-open
// document. It returns false if uri is not open.
func (s *Store) Change(uri, text string, version int) (*Document, bool) {
	s.mu.RLock()
	doc, ok := s.docs[uri]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	doc.update(text, version)
	return doc, true
}

// Close removes uri from the store.
func (s *Store) Close(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

// Get returns the document open at uri, if any.
func (s *Store) Get(uri string) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[uri]
	return doc, ok
}

// All returns a snapshot of every currently open document, for
// workspace-wide operations (workspace/symbol, references across files).
func (s *Store) All() []*Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Document, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, d)
	}
	return out
}
