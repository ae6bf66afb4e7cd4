package server

import (
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/patrickkwang/bmt-lite/errors"
	"github.com/patrickkwang/bmt-lite/model"
	"github.com/patrickkwang/bmt-lite/taxonomy"
)

// modelDebouncePeriod coalesces editor write bursts into one rebuild
const modelDebouncePeriod = 500 * time.Millisecond

// ModelWatcher rebuilds the index when the model file changes on disk
// and swaps it into the server. A failed rebuild keeps the running
// index.
type ModelWatcher struct {
	server  *Server
	path    string
	watcher *fsnotify.Watcher

	mu            sync.Mutex
	debounceTimer *time.Timer
}

func newModelWatcher(s *Server, path string) (*ModelWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating fsnotify watcher")
	}

	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, errors.Wrapf(err, "watching model file %s", path)
	}

	return &ModelWatcher{
		server:  s,
		path:    path,
		watcher: watcher,
	}, nil
}

// Start begins watching for model file changes
func (mw *ModelWatcher) Start() {
	mw.server.wg.Add(1)
	go func() {
		defer mw.server.wg.Done()
		mw.watchLoop()
	}()
	mw.server.logger.Infow("Model watcher started", "path", mw.path)
}

func (mw *ModelWatcher) watchLoop() {
	for {
		select {
		case <-mw.server.ctx.Done():
			return
		case event, ok := <-mw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				mw.server.logger.Infow("Model watcher detected change",
					"file", event.Name,
					"op", event.Op.String())
				mw.scheduleReload()
			}
		case err, ok := <-mw.watcher.Errors:
			if !ok {
				return
			}
			mw.server.logger.Warnw("Model watcher error", "error", err)
		}
	}
}

// scheduleReload debounces rapid file changes before rebuilding
func (mw *ModelWatcher) scheduleReload() {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	if mw.debounceTimer != nil {
		mw.debounceTimer.Stop()
	}
	mw.debounceTimer = time.AfterFunc(modelDebouncePeriod, func() {
		if err := mw.reload(); err != nil {
			mw.server.logger.Errorw("Model reload failed, keeping current index",
				"path", mw.path,
				"error", err,
			)
		}
	})
}

// reload rebuilds the index from the model file and swaps it in
func (mw *ModelWatcher) reload() error {
	data, err := os.ReadFile(mw.path)
	if err != nil {
		return errors.Wrap(err, "reading model file")
	}

	doc, err := model.Parse(data)
	if err != nil {
		return err
	}

	tk, err := taxonomy.New(doc)
	if err != nil {
		return err
	}

	mw.server.SwapModel(tk, model.Fingerprint(data))
	return nil
}

// Stop stops watching for model changes
func (mw *ModelWatcher) Stop() error {
	return mw.watcher.Close()
}
