package domain

import (
	"fmt"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	m "github.com/mouse-blink/ipynb2/internal/model"
)

// Session caches parsed notebooks for one collection pass so repeated
// address lookups load each file once. It is safe for concurrent use.
type Session struct {
	loader  Loader
	muggler Muggler
	marker  string
	logger  *zap.Logger

	mu    sync.Mutex
	cache map[string]*ParsedNotebook
}

// NewSession constructs a Session. A nil logger disables logging.
func NewSession(loader Loader, mg Muggler, marker string, logger *zap.Logger) *Session {
	if marker == "" {
		marker = DefaultTestMarker
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Session{
		loader:  loader,
		muggler: mg,
		marker:  marker,
		logger:  logger,
		cache:   make(map[string]*ParsedNotebook),
	}
}

// Notebook returns the parsed notebook at path, loading it on first use.
// Load failures are not cached.
func (s *Session) Notebook(path m.Path) (*ParsedNotebook, error) {
	key := cacheKey(path)

	s.mu.Lock()
	parsed, ok := s.cache[key]
	s.mu.Unlock()

	if ok {
		return parsed, nil
	}

	nb, err := s.loader.Load(path)
	if err != nil {
		return nil, err
	}

	parsed, err = ParseNotebook(nb, s.marker, s.muggler)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for _, index := range parsed.ErrorIndices() {
		s.logger.Debug("cell left out after muggling",
			zap.String("notebook", string(path)),
			zap.Int("cell", index),
			zap.Error(parsed.CellErrors[index]))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// another goroutine may have stored it meanwhile; keep the first one
	if cached, ok := s.cache[key]; ok {
		return cached, nil
	}

	s.cache[key] = parsed

	s.logger.Debug("notebook parsed",
		zap.String("notebook", string(path)),
		zap.Int("cells", nb.Len()),
		zap.Int("tests", parsed.Test.Len()))

	return parsed, nil
}

// Module resolves addr to its executable module.
func (s *Session) Module(addr m.CellAddress) (m.Module, error) {
	parsed, err := s.Notebook(addr.Notebook)
	if err != nil {
		return m.Module{}, err
	}

	return parsed.Module(addr.Cell)
}

func cacheKey(path m.Path) string {
	abs, err := filepath.Abs(string(path))
	if err != nil {
		return filepath.Clean(string(path))
	}

	return abs
}
