package ngram

import (
	"fmt"
	"io"
	"maps"

	"github.com/samcharles93/ngram/pkg/ngramfile"
)

// Document encodes the table into its persisted form. It fails with
// ngramfile.ErrDelimiterCollision if a stored token contains the key
// delimiter, since such a key could not be decoded back.
func (m *Model) Document() (ngramfile.Document, error) {
	doc := make(ngramfile.Document, 0, m.table.Len())
	for _, e := range m.table.sorted() {
		key, err := ngramfile.EncodeKey(e.context)
		if err != nil {
			return nil, fmt.Errorf("ngram: encode context %q: %w", e.context, err)
		}
		counts := make(map[string]uint64, len(e.counts))
		maps.Copy(counts, e.counts)
		doc = append(doc, ngramfile.Pair{Key: key, Counts: counts})
	}
	return doc, nil
}

// Save writes the table to w.
func (m *Model) Save(w io.Writer) error {
	doc, err := m.Document()
	if err != nil {
		return err
	}
	if err := ngramfile.Encode(w, doc); err != nil {
		return fmt.Errorf("ngram: save: %w", err)
	}
	return nil
}

// SaveFile writes the table to path, replacing it atomically.
func (m *Model) SaveFile(path string) error {
	doc, err := m.Document()
	if err != nil {
		return err
	}
	if err := ngramfile.WriteFile(path, doc); err != nil {
		return fmt.Errorf("ngram: save %s: %w", path, err)
	}
	m.log.Debug("saved model", "path", path, "contexts", len(doc))
	return nil
}

// Load replaces the table with the document read from r. On any error the
// current table is kept as it was.
func (m *Model) Load(r io.Reader) error {
	doc, err := ngramfile.Decode(r)
	if err != nil {
		return fmt.Errorf("ngram: load: %w", err)
	}
	return m.LoadDocument(doc)
}

// LoadFile replaces the table with the document stored at path.
func (m *Model) LoadFile(path string) error {
	doc, err := ngramfile.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ngram: load %s: %w", path, err)
	}
	if err := m.LoadDocument(doc); err != nil {
		return err
	}
	m.log.Debug("loaded model", "path", path, "contexts", m.table.Len())
	return nil
}

// LoadDocument replaces the table with doc. Every key must decode to exactly
// ContextSize tokens.
func (m *Model) LoadDocument(doc ngramfile.Document) error {
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("ngram: load: %w", err)
	}

	table := NewTable(m.cfg.ContextSize)
	for _, p := range doc {
		ctx := ngramfile.DecodeKey(p.Key)
		if len(ctx) != m.cfg.ContextSize {
			return fmt.Errorf("%w: key %q has %d tokens, model uses %d",
				ErrContextSizeMismatch, p.Key, len(ctx), m.cfg.ContextSize)
		}
		for tok, n := range p.Counts {
			table.add(ctx, tok, n)
		}
	}

	m.table = table
	m.backoff = newBackoff(m.cfg)
	for _, e := range table.entries {
		for tok, n := range e.counts {
			m.indexBackoff(e.context, tok, n)
		}
	}
	return nil
}

// Open loads the model stored at path. When cfg.ContextSize is zero it is
// taken from the file, falling back to DefaultConfig for an empty file.
func Open(path string, cfg Config, opts ...Option) (*Model, error) {
	doc, err := ngramfile.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ngram: open %s: %w", path, err)
	}
	if cfg.ContextSize == 0 {
		size, err := doc.ContextSize()
		if err != nil {
			return nil, fmt.Errorf("ngram: open %s: %w", path, err)
		}
		if size == 0 {
			size = DefaultConfig().ContextSize
		}
		cfg.ContextSize = size
	}
	m, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	if err := m.LoadDocument(doc); err != nil {
		return nil, err
	}
	return m, nil
}
