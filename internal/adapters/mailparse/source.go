package mailparse

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/mikey/spam-classifier/internal/core"
)

// FileSource reads messages from files on disk. Directories are expanded
// to the regular files directly inside them.
type FileSource struct {
	paths  []string
	logger *zap.Logger
}

// NewFileSource creates a new file source
func NewFileSource(paths []string, logger *zap.Logger) *FileSource {
	return &FileSource{
		paths:  paths,
		logger: logger,
	}
}

// Fetch parses every file. A file without a Message-Id is identified by its path.
func (s *FileSource) Fetch(ctx context.Context) ([]core.MailContent, error) {
	files, err := s.expand()
	if err != nil {
		return nil, err
	}

	mails := make([]core.MailContent, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content, err := parseFile(path)
		if err != nil {
			return nil, err
		}
		if content.ID == "" {
			content.ID = path
		}
		mails = append(mails, content)
	}

	s.logger.Debug("Parsed mail files", zap.Int("count", len(mails)))
	return mails, nil
}

func (s *FileSource) expand() ([]string, error) {
	var files []string
	for _, path := range s.paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
		}
		var names []string
		for _, entry := range entries {
			if entry.Type().IsRegular() {
				names = append(names, filepath.Join(path, entry.Name()))
			}
		}
		sort.Strings(names)
		files = append(files, names...)
	}
	return files, nil
}

func parseFile(path string) (core.MailContent, error) {
	f, err := os.Open(path)
	if err != nil {
		return core.MailContent{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	content, err := Parse(f)
	if err != nil {
		return core.MailContent{}, fmt.Errorf("%s: %w", path, err)
	}
	return content, nil
}
