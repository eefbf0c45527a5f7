package document

import (
	"log/slog"
	"sync"
)

// Manager tracks activated documents by key. Activating a key again
// replaces the previous document.
type Manager struct {
	log  *slog.Logger
	opts Options
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewManager creates a document manager. If log is nil, slog.Default() is used.
func NewManager(opts Options, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		log:  log.With("component", "document-manager"),
		opts: opts,
		docs: make(map[string]*Document),
	}
}

// Activate builds a document from text and registers it under key. The
// returned bool is false when an earlier document was replaced.
func (m *Manager) Activate(key, text string) (*Document, bool) {
	d := New(key, text, m.opts, m.log)

	m.mu.Lock()
	_, existed := m.docs[key]
	m.docs[key] = d
	m.mu.Unlock()

	m.log.Info("document activated", "key", key, "lines", d.LineCount(), "frame_rate", d.Rate, "replaced", existed)
	return d, !existed
}

// Get returns the document registered under key.
func (m *Manager) Get(key string) (*Document, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.docs[key]
	return d, ok
}

// Remove deactivates a document. It reports whether key was active.
func (m *Manager) Remove(key string) bool {
	m.mu.Lock()
	_, ok := m.docs[key]
	delete(m.docs, key)
	m.mu.Unlock()

	if ok {
		m.log.Info("document removed", "key", key)
	}
	return ok
}

// List returns all active documents.
func (m *Manager) List() []*Document {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]*Document, 0, len(m.docs))
	for _, d := range m.docs {
		docs = append(docs, d)
	}
	return docs
}
