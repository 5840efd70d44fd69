// Package catalog is the graph catalog collaborator (spec.md component H):
// it is the only place in the repository that reads or writes the .gph
// catalog files. The core never imports this package; it is handed an
// in-memory *graph.Graph by whatever collaborator called runGraph.
package catalog

import (
	"compress/gzip"
	"encoding/base64"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/valaphee/flowgo/internal/domain/graph"
	"github.com/valaphee/flowgo/internal/pkg/errors"
)

// filename returns the basename spec.md §6 mandates: URL-safe base64 of the
// lowercase graph name, suffixed ".gph".
func filename(name string) string {
	lower := strings.ToLower(name)
	return base64.URLEncoding.EncodeToString([]byte(lower)) + ".gph"
}

// Store is a filesystem-backed graph catalog. Save and lookups go straight
// to disk; List keeps an in-memory name index so listing never needs a
// directory scan on the hot path, refreshed by Save/Delete and by Reload at
// startup.
type Store struct {
	dir string

	mu    sync.RWMutex
	names map[string]bool
}

// NewStore returns a Store rooted at dir. dir need not exist yet: Save
// creates it, and Reload treats a missing dir as an empty catalog.
func NewStore(dir string) *Store {
	return &Store{dir: dir, names: make(map[string]bool)}
}

// Reload scans dir and rebuilds the in-memory name index by reading every
// .gph file's embedded graph name. Call this once at startup.
func (s *Store) Reload() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.names = make(map[string]bool)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".gph") {
			continue
		}
		data, err := readGZIP(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		g, err := graph.Parse(data)
		if err != nil {
			continue
		}
		s.names[g.Name()] = true
	}
	return nil
}

// Save writes g to its deterministic path, gzip-compressed, and indexes its
// name. An existing file for the same name is overwritten.
func (s *Store) Save(g *graph.Graph) error {
	data, err := g.MarshalJSON()
	if err != nil {
		return err
	}

	path := filepath.Join(s.dir, filename(g.Name()))
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	if err := writeGZIP(path, data); err != nil {
		return err
	}

	s.mu.Lock()
	s.names[g.Name()] = true
	s.mu.Unlock()
	return nil
}

// Lookup implements the catalog collaborator's lookupGraph(name) contract:
// it returns the graph, or NotFoundError if no file is indexed for name.
func (s *Store) Lookup(name string) (*graph.Graph, error) {
	s.mu.RLock()
	_, known := s.names[name]
	s.mu.RUnlock()

	if !known {
		return nil, errors.NotFound("graph", name)
	}

	data, err := readGZIP(filepath.Join(s.dir, filename(name)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("graph", name)
		}
		return nil, err
	}
	return graph.Parse(data)
}

// List implements listGraphs(): every graph name currently indexed, in no
// particular order.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.names))
	for name := range s.names {
		names = append(names, name)
	}
	return names
}

// Delete removes a graph's file and index entry. A no-op if the name was
// never known.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.names[name] {
		return nil
	}
	delete(s.names, name)

	err := os.Remove(filepath.Join(s.dir, filename(name)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func writeGZIP(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	gw := gzip.NewWriter(f)
	if _, err := gw.Write(data); err != nil {
		gw.Close()
		return err
	}
	return gw.Close()
}

func readGZIP(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer gr.Close()

	return io.ReadAll(gr)
}
