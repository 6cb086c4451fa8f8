package build

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/yngtodd/tok/internal/stage"
)

const watchDebounce = 300 * time.Millisecond

// runWatch performs an initial build, then rebuilds whenever a file under the
// corpus root (or the config file) changes. Events are debounced so editor
// write bursts trigger a single rebuild. The loop exits when ctx is canceled.
func runWatch(ctx context.Context, rebuild func(context.Context) (stage.Envelope, error)) error {
	env, err := rebuild(ctx)
	if err != nil {
		return err
	}
	if err := evaluateBuildExit(env); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "watch build failed: %v\n", err)
	}

	root := corpusRoot(env.Meta)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()
	if err := addDirsRecursive(watcher, root); err != nil {
		return err
	}
	if cfgPath != "" {
		if err := watcher.Add(filepath.Dir(cfgPath)); err != nil {
			return fmt.Errorf("failed to watch config dir: %w", err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watchLoop(ctx, watcher, rebuild)
	})
	return g.Wait()
}

func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, rebuild func(context.Context) (stage.Envelope, error)) error {
	var timer *time.Timer
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create == fsnotify.Create {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(watchDebounce)
			}
			pending = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			_, _ = fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		case <-pending:
			pending = nil
			env, err := rebuild(ctx)
			if err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "watch rebuild failed: %v\n", err)
				continue
			}
			if err := evaluateBuildExit(env); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "watch rebuild failed: %v\n", err)
				continue
			}
			_, _ = fmt.Fprintf(os.Stderr, "watch rebuilt files=%d errors=%d\n", len(env.Records), len(env.Errors))
		}
	}
}

func corpusRoot(meta *stage.Meta) string {
	if meta != nil && meta.Corpus != nil && meta.Corpus.Root != "" {
		return meta.Corpus.Root
	}
	return "."
}

func addDirsRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
		return nil
	})
}
