package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/revelaction/namefind/storage"
	"github.com/revelaction/namefind/storage/filesystem"
	"github.com/revelaction/namefind/storage/sqlite/zombiezen"
)

// NewCorpusRepository returns the filesystem store for a directory and the
// sqlite store for any other file.
func NewCorpusRepository(p *Pool, path string, logger *zap.Logger) (storage.CorpusRepository, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("repository not found: %s", path)
	}

	if info.IsDir() {
		logger.Debug("filesystem repository", zap.String("path", path))
		return filesystem.NewCorpusStore(path, logger)
	}

	logger.Debug("sqlite repository", zap.String("path", path))
	pool, err := p.Open(path)
	if err != nil {
		return nil, err
	}
	return zombiezen.NewCorpusStore(pool), nil
}

func (e *env) repository(path string) (storage.CorpusRepository, error) {
	return NewCorpusRepository(e.pool, path, e.logger)
}
