// Package tagmap maps raw tag labels of item pages to canonical labels.
package tagmap

import "maps"

// Mapper translates raw tag labels using a fixed vocabulary.
// A Mapper is immutable and safe for concurrent use.
type Mapper struct {
	vocab map[string]string
}

// New creates a Mapper from a vocabulary of raw to canonical labels.
// The vocabulary is copied, later changes to it do not affect the Mapper.
func New(vocab map[string]string) *Mapper {
	return &Mapper{vocab: maps.Clone(vocab)}
}

// Label returns the canonical label for raw, or raw itself when the
// vocabulary does not know it.
func (m *Mapper) Label(raw string) string {
	if res, ok := m.vocab[raw]; ok {
		return res
	}
	return raw
}

// Map translates tags keeping their order and duplicates.
// Unknown labels pass through unchanged.
func (m *Mapper) Map(tags []string) []string {
	if tags == nil {
		return nil
	}
	res := make([]string, len(tags))
	for i, v := range tags {
		res[i] = m.Label(v)
	}
	return res
}

// Len returns the size of the vocabulary.
func (m *Mapper) Len() int {
	return len(m.vocab)
}
