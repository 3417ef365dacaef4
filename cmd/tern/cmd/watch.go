package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// debounce is how long a file must be quiet before it is re-checked.
const debounce = 100 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch FILE...",
	Short: "Re-check files whenever they change",
	Long: `Check every file once, then watch them and check each one again
after it is written. Runs until interrupted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	for _, path := range args {
		checkFile(cmd, path)
	}

	w, err := newWatcher(args, func(path string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", styles().muted("changed: "+path))
		checkFile(cmd, path)
	})
	if err != nil {
		return err
	}
	defer w.Close()

	return w.Run(ctx)
}

// Watcher calls onChange for a watched file once it has been quiet for the
// debounce interval after a write or create. onChange always runs on the
// goroutine that called Run, so calls never overlap.
type Watcher struct {
	fs       *fsnotify.Watcher
	files    map[string]string // absolute path -> path as given
	onChange func(path string)

	fired chan string
	done  chan struct{}

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// newWatcher watches the directories containing files. Watching directories
// rather than files survives editors that save by renaming.
func newWatcher(files []string, onChange func(path string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{
		fs:       fsw,
		files:    make(map[string]string),
		onChange: onChange,
		fired:    make(chan string),
		done:     make(chan struct{}),
		timers:   make(map[string]*time.Timer),
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		w.files[abs] = f
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
		logger.Debug("watching", slog.String("dir", dir))
	}
	return w, nil
}

// Run processes events until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return nil

		case path := <-w.fired:
			w.onChange(path)

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if path, watched := w.files[filepath.Clean(event.Name)]; watched {
				w.schedule(path)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", slog.Any("error", err))
		}
	}
}

// schedule (re)starts the debounce timer for path. Only the last of a burst
// of events is delivered, so the check sees the file's final content.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Reset(debounce)
		return
	}
	w.timers[path] = time.AfterFunc(debounce, func() {
		select {
		case w.fired <- path:
		case <-w.done:
		}
	})
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.mu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.mu.Unlock()
	return w.fs.Close()
}
