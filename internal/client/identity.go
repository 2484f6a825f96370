package client

import (
	"context"
	"sync"
)

type loginer interface {
	Login(ctx context.Context, creds Credentials) (*StoredUser, error)
}

type keyValueStore interface {
	Get(key string, v any) (bool, error)
	Set(key string, v any) error
	Delete(key string) error
}

// Identity is the editor's view of who is logged in. Login and Logout are
// the only writers; readers get copies.
type Identity struct {
	mu    sync.RWMutex
	auth  loginer
	store keyValueStore
	user  *StoredUser
}

// NewIdentity restores a previously cached user from store, if any.
func NewIdentity(auth loginer, store keyValueStore) (*Identity, error) {
	id := &Identity{auth: auth, store: store}
	var cached StoredUser
	ok, err := store.Get(UserKey, &cached)
	if err != nil {
		return nil, err
	}
	if ok && cached.Token != "" {
		id.user = &cached
	}
	return id, nil
}

func (i *Identity) Login(ctx context.Context, creds Credentials) (StoredUser, error) {
	user, err := i.auth.Login(ctx, creds)
	if err != nil {
		return StoredUser{}, err
	}
	if err := i.store.Set(UserKey, user); err != nil {
		return StoredUser{}, err
	}
	i.mu.Lock()
	i.user = user
	i.mu.Unlock()
	return *user, nil
}

func (i *Identity) Logout() error {
	i.mu.Lock()
	i.user = nil
	i.mu.Unlock()
	return i.store.Delete(UserKey)
}

// Current returns the logged-in user, if any.
func (i *Identity) Current() (StoredUser, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.user == nil {
		return StoredUser{}, false
	}
	return *i.user, true
}
