// Package filestore records games in append-only files, one file per game.
package filestore

import (
	"context"
	"net/url"
	"os"
	"os/user"
	"path"
	"sync"

	"github.com/battlesnakeio/nol/store"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func defaultDir() string {
	return path.Join(homeDir(), ".nol/games")
}

func homeDir() string {
	usr, err := user.Current()
	if err != nil {
		return "."
	}
	return usr.HomeDir
}

// NewFileStore returns a file based store implementation (1 file per game).
// An empty directory means ~/.nol/games.
func NewFileStore(directory string) (*FileStore, error) {
	if directory == "" {
		directory = defaultDir()
	}
	if err := os.MkdirAll(directory, 0775); err != nil {
		return nil, errors.Wrapf(err, "unable to create %s", directory)
	}

	return &FileStore{
		cache:     store.InMemStore(),
		loaded:    map[string]bool{},
		writers:   map[string]writer{},
		directory: directory,
	}, nil
}

// FileStore keeps every game it has touched in an in memory store. The files
// are the source of truth across restarts.
type FileStore struct {
	cache     store.Store
	loaded    map[string]bool
	writers   map[string]writer
	lock      sync.Mutex
	directory string
}

// Close closes every open game file.
func (fs *FileStore) Close() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	var first error
	for id := range fs.writers {
		if err := fs.closeGame(id); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (fs *FileStore) closeGame(id string) error {
	w, ok := fs.writers[id]
	if !ok {
		return nil
	}
	delete(fs.writers, id)
	if err := w.Close(); err != nil {
		log.WithError(err).WithField("game", id).Error("Error while closing file writer")
		return err
	}
	return nil
}

func (fs *FileStore) CreateGame(ctx context.Context, id string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	exists, err := fs.requireGame(ctx, id)
	if err != nil || exists {
		return err
	}
	if err := fs.append(id, &entry{Created: true}); err != nil {
		return err
	}
	return fs.cache.CreateGame(ctx, id)
}

func (fs *FileStore) PushTurn(ctx context.Context, id string, t *store.Turn) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if _, err := fs.requireGame(ctx, id); err != nil {
		return err
	}
	if err := fs.append(id, &entry{Turn: t}); err != nil {
		return err
	}
	return fs.cache.PushTurn(ctx, id, t)
}

func (fs *FileStore) ListTurns(ctx context.Context, id string, limit, offset int) ([]*store.Turn, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	exists, err := fs.requireGame(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, store.ErrNotFound
	}
	return fs.cache.ListTurns(ctx, id, limit, offset)
}

func (fs *FileStore) EndGame(ctx context.Context, id string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	exists, err := fs.requireGame(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return store.ErrNotFound
	}
	if err := fs.append(id, &entry{Ended: true}); err != nil {
		return err
	}
	if err := fs.closeGame(id); err != nil {
		return err
	}
	return fs.cache.EndGame(ctx, id)
}

func (fs *FileStore) GetGame(ctx context.Context, id string) (*store.Game, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	exists, err := fs.requireGame(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, store.ErrNotFound
	}
	return fs.cache.GetGame(ctx, id)
}

// requireGame loads the game file into the cache the first time a game is
// seen and reports whether the game exists.
func (fs *FileStore) requireGame(ctx context.Context, id string) (bool, error) {
	if fs.loaded[id] {
		_, err := fs.cache.GetGame(ctx, id)
		if err == store.ErrNotFound {
			return false, nil
		}
		return err == nil, err
	}

	path := getFilePath(fs.directory, id)
	a, err := readArchive(path)
	if os.IsNotExist(errors.Cause(err)) {
		fs.loaded[id] = true
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := repair(path, a); err != nil {
		return false, err
	}

	if err := replay(ctx, fs.cache, id, a.entries); err != nil {
		return false, err
	}
	fs.loaded[id] = true
	return true, nil
}

func (fs *FileStore) append(id string, e *entry) error {
	w, ok := fs.writers[id]
	if !ok {
		var err error
		w, err = openFileWriter(getFilePath(fs.directory, id))
		if err != nil {
			return errors.Wrapf(err, "unable to open game %s", id)
		}
		fs.writers[id] = w
	}
	return writeLine(w, e)
}

// replay applies the entries of a game file to the cache.
func replay(ctx context.Context, s store.Store, id string, entries []*entry) error {
	if err := s.CreateGame(ctx, id); err != nil {
		return err
	}
	for _, e := range entries {
		switch {
		case e.Turn != nil:
			if err := s.PushTurn(ctx, id, e.Turn); err != nil {
				return err
			}
		case e.Ended:
			if err := s.EndGame(ctx, id); err != nil {
				return err
			}
		}
	}
	return nil
}

func getFilePath(directory string, id string) string {
	return path.Join(directory, url.PathEscape(id)+".nol")
}
