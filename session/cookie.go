package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	nonceSize = 24
	// maxCookieValue leaves room for the cookie name and attributes within
	// the 4096 bytes browsers keep per cookie.
	maxCookieValue = 3800
)

// ErrStateTooLarge is returned when a sealed session does not fit in a cookie.
var ErrStateTooLarge = errors.New("session too large for a cookie")

// CookieBackend keeps the session sealed with secretbox in the cookie value,
// which doubles as the reference. Deleted references are remembered until
// their sealed expiry so a copy of the cookie cannot be replayed.
type CookieBackend struct {
	key     [32]byte
	now     func() time.Time
	revoked *cache.Cache
}

type sealed struct {
	State   State `json:"s"`
	Expires int64 `json:"e"`
}

func NewCookieBackend(secret string) *CookieBackend {
	return &CookieBackend{
		key:     sha256.Sum256([]byte(secret)),
		now:     time.Now,
		revoked: cache.New(cache.NoExpiration, 10*time.Minute),
	}
}

func (b *CookieBackend) open(ref string) (sealed, bool) {
	box, err := base64.RawURLEncoding.DecodeString(ref)
	if err != nil || len(box) < nonceSize+secretbox.Overhead {
		return sealed{}, false
	}
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	plain, ok := secretbox.Open(nil, box[nonceSize:], &nonce, &b.key)
	if !ok {
		return sealed{}, false
	}
	var v sealed
	if err := json.Unmarshal(plain, &v); err != nil {
		return sealed{}, false
	}
	return v, true
}

func revokedKey(ref string) string {
	sum := sha256.Sum256([]byte(ref))
	return hex.EncodeToString(sum[:])
}

func (b *CookieBackend) Load(_ context.Context, ref string) (State, error) {
	v, ok := b.open(ref)
	if !ok || b.now().Unix() >= v.Expires {
		return State{}, ErrNotFound
	}
	if _, gone := b.revoked.Get(revokedKey(ref)); gone {
		return State{}, ErrNotFound
	}
	return v.State, nil
}

// Save seals st into a new reference. A previous reference is revoked.
func (b *CookieBackend) Save(ctx context.Context, ref string, st State, ttl time.Duration) (string, error) {
	plain, err := json.Marshal(sealed{State: st, Expires: b.now().Add(ttl).Unix()})
	if err != nil {
		return "", err
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("read nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], plain, &nonce, &b.key)
	out := base64.RawURLEncoding.EncodeToString(box)
	if len(out) > maxCookieValue {
		return "", fmt.Errorf("%w: %d bytes", ErrStateTooLarge, len(out))
	}
	if ref != "" {
		_ = b.Delete(ctx, ref)
	}
	return out, nil
}

// Delete revokes ref until the expiry sealed inside it.
func (b *CookieBackend) Delete(_ context.Context, ref string) error {
	v, ok := b.open(ref)
	if !ok {
		return nil
	}
	ttl := time.Unix(v.Expires, 0).Sub(b.now())
	if ttl <= 0 {
		return nil
	}
	b.revoked.Set(revokedKey(ref), struct{}{}, ttl)
	return nil
}
