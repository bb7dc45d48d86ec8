package refreshrepofake

import (
	"sort"
	"sync"

	"github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/token/refresh"
)

var _ refresh.Repo = (*FakeRefreshTokenRepo)(nil)

type FakeRefreshTokenRepo struct {
	tokens map[string]*refresh.StoredRefreshToken
	lock   sync.RWMutex
}

func NewFakeRefreshTokenRepo() *FakeRefreshTokenRepo {
	return &FakeRefreshTokenRepo{
		tokens: make(map[string]*refresh.StoredRefreshToken),
	}
}

func (tr *FakeRefreshTokenRepo) Upsert(refreshToken *refresh.StoredRefreshToken) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	cp := *refreshToken
	tr.tokens[refreshToken.TokenHash] = &cp
	return nil
}

func (tr *FakeRefreshTokenRepo) Delete(tokenHash string) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	if _, ok := tr.tokens[tokenHash]; !ok {
		return errors.ErrNotFound
	}
	delete(tr.tokens, tokenHash)
	return nil
}

func (tr *FakeRefreshTokenRepo) Get(tokenHash string) (*refresh.StoredRefreshToken, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	rt, ok := tr.tokens[tokenHash]
	if !ok {
		return nil, errors.ErrNotFound
	}
	cp := *rt
	return &cp, nil
}

func (tr *FakeRefreshTokenRepo) DeleteByUserID(userID string) (int, error) {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	removed := 0
	for hash, rt := range tr.tokens {
		if rt.UserID == userID {
			delete(tr.tokens, hash)
			removed++
		}
	}
	return removed, nil
}

func (tr *FakeRefreshTokenRepo) List(offset, limit int) ([]*refresh.StoredRefreshToken, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	tokens := make([]*refresh.StoredRefreshToken, 0, len(tr.tokens))
	for _, v := range tr.tokens {
		cp := *v
		tokens = append(tokens, &cp)
	}

	sort.Slice(tokens, func(i, j int) bool {
		return tokens[i].Iat.Before(tokens[j].Iat)
	})

	if offset >= len(tokens) {
		return []*refresh.StoredRefreshToken{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(tokens) {
		end = len(tokens)
	}
	return tokens[offset:end], nil
}
