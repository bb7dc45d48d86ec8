package storagefake

import (
	"errors"
	"sync"

	"github.com/jrsteele09/go-auth-client/session"
)

var _ session.Storage = (*FakeStorage)(nil)

// FakeStorage is an in-memory session.Storage. FailWrites makes every Set and
// Remove fail; FailKeys does the same for the listed slots only.
type FakeStorage struct {
	slots      map[string]string
	writes     int
	FailWrites bool
	FailKeys   map[string]bool
	lock       sync.RWMutex
}

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{
		slots: make(map[string]string),
	}
}

func (fs *FakeStorage) Get(key string) (string, bool, error) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	v, ok := fs.slots[key]
	return v, ok, nil
}

func (fs *FakeStorage) Set(key, value string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.FailWrites || fs.FailKeys[key] {
		return errors.New("write failed: " + key)
	}
	fs.writes++
	fs.slots[key] = value
	return nil
}

func (fs *FakeStorage) Remove(key string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.FailWrites || fs.FailKeys[key] {
		return errors.New("write failed: " + key)
	}
	fs.writes++
	delete(fs.slots, key)
	return nil
}

// Keys returns the number of populated slots.
func (fs *FakeStorage) Keys() int {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	return len(fs.slots)
}

// Writes returns how many successful Set/Remove calls were made.
func (fs *FakeStorage) Writes() int {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	return fs.writes
}
