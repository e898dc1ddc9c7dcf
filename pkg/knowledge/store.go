package knowledge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"virtual-assistant-be/internal/pkg/logger"

	"github.com/fsnotify/fsnotify"
)

const module = "Knowledge"

// Result is the outcome of a load. It never carries an error to act on:
// Err only explains why Fallback is set.
type Result struct {
	Text     string
	Fallback bool
	Err      error
}

// Store loads the knowledge document once and serves it from memory until
// the file changes. Fallback results are never memoised so the next load retries.
type Store struct {
	path     string
	logger   logger.ILogger
	readFile func(string) ([]byte, error)

	mu     sync.RWMutex
	cached *string
}

func NewStore(path string, log logger.ILogger) *Store {
	return &Store{
		path:     path,
		logger:   log,
		readFile: os.ReadFile,
	}
}

// Path returns the configured document location.
func (s *Store) Path() string {
	return s.path
}

// Load returns the document text, substituting FallbackDocument on any read failure.
func (s *Store) Load(ctx context.Context) Result {
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()
	if cached != nil {
		return Result{Text: *cached}
	}

	raw, err := s.readFile(s.path)
	if err == nil && strings.TrimSpace(string(raw)) == "" {
		err = fmt.Errorf("knowledge document %s is empty", s.path)
	}
	if err != nil {
		s.logger.Warn(module, "Knowledge document unavailable, using fallback", map[string]interface{}{
			"path":  s.path,
			"error": err.Error(),
		})
		return Result{Text: FallbackDocument, Fallback: true, Err: err}
	}

	text := string(raw)
	s.mu.Lock()
	if s.cached == nil {
		s.cached = &text
	}
	text = *s.cached
	s.mu.Unlock()

	s.logger.Info(module, "Knowledge document loaded", map[string]interface{}{
		"path":  s.path,
		"bytes": len(text),
	})
	return Result{Text: text}
}

// Invalidate drops the memoised document; the next Load reads the file again.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

// Watch invalidates the memo whenever the document is written, replaced or removed.
// It blocks until ctx is done.
func (s *Store) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	// Editors often replace files via rename, so watch the directory.
	dir := filepath.Dir(s.path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	target := filepath.Clean(s.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			s.Invalidate()
			s.logger.Info(module, "Knowledge document changed, cache invalidated", map[string]interface{}{
				"path": event.Name,
				"op":   event.Op.String(),
			})
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn(module, "Watcher error", map[string]interface{}{"error": err.Error()})
		}
	}
}
