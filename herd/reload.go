package herd

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/plus3/sheepdog/ecs"
)

const reloadDebounce = 100 * time.Millisecond

// ConfigWatcher reloads a config file whenever it changes on disk and
// publishes each valid result on Updates. Invalid files are logged and
// skipped, so the last good config stays in effect.
type ConfigWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	updates chan *Config
	logger  *slog.Logger

	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// WatchConfig starts watching path. The parent directory is watched rather
// than the file so that editors which replace the file on save are seen.
func WatchConfig(path string, l *slog.Logger) (*ConfigWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	w := &ConfigWatcher{
		path:    abs,
		watcher: fw,
		updates: make(chan *Config, 1),
		logger:  logger(l),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Updates delivers reloaded configs. Only the newest unread config is kept.
func (w *ConfigWatcher) Updates() <-chan *Config {
	return w.updates
}

func (w *ConfigWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

// run reloads once events for the file have been quiet for reloadDebounce,
// so a save that arrives as several writes is read only after the last one.
func (w *ConfigWatcher) run() {
	defer close(w.done)

	timer := time.NewTimer(reloadDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			timer.Reset(reloadDebounce)
		case <-timer.C:
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)
		case <-w.closeCh:
			return
		}
	}
}

func (w *ConfigWatcher) reload() {
	cfg, err := LoadConfig(w.path)
	if err != nil {
		w.logger.Warn("config reload rejected", "path", w.path, "error", err)
		return
	}

	select {
	case w.updates <- cfg:
	default:
		// drop the unread config in favor of the newer one
		select {
		case <-w.updates:
		default:
		}
		w.updates <- cfg
	}
}

// ConfigReloadSystem installs at most one pending config per tick. A change
// to any spawn parameter also requests a respawn, reseeding when the seed changed.
type ConfigReloadSystem struct {
	Config  ecs.Singleton[Config]
	Request ecs.Singleton[RespawnRequest]

	Updates <-chan *Config
	Logger  *slog.Logger
}

func (s *ConfigReloadSystem) Execute(frame *ecs.UpdateFrame) {
	if s.Updates == nil {
		return
	}

	select {
	case next := <-s.Updates:
		s.apply(next)
	default:
	}
}

func (s *ConfigReloadSystem) apply(next *Config) {
	current := s.Config.Get()
	previous := *current
	*current = *next

	if spawnChanged(previous.Flock, next.Flock) {
		req := s.Request.Get()
		req.Pending = true
		req.Reseed = req.Reseed || previous.Flock.Seed != next.Flock.Seed
	}

	logger(s.Logger).Info("config reloaded",
		"sheep", next.Flock.SheepCount,
		"seed", next.Flock.Seed,
		"herder", next.Herder.Enabled,
	)
}

func spawnChanged(a, b FlockConfig) bool {
	return a.Seed != b.Seed ||
		a.SheepCount != b.SheepCount ||
		a.BiasStrength != b.BiasStrength ||
		a.SpawnSpread != b.SpawnSpread ||
		a.InitialSpeed != b.InitialSpeed
}
