package seed

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const debounce = 400 * time.Millisecond

// Watch re-seeds whenever the manuscript changes, until ctx is done. The
// parent directory is watched rather than the file itself because editors
// replace files on save, which would drop a watch on the file's inode.
func (s *Seeder) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid manuscript path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch manuscript directory: %w", err)
	}

	var timer *time.Timer
	reseed := func() {
		count, err := s.SeedFile(ctx, abs)
		if err != nil {
			s.logger.Error("re-seed failed", zap.String("path", abs), zap.Error(err))
			return
		}
		s.logger.Info("manuscript re-seeded", zap.String("path", abs), zap.Int("sections", count))
	}

	s.logger.Info("watching manuscript", zap.String("path", abs))
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, reseed)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watch error", zap.Error(err))
		}
	}
}
