package murmur

import (
	"context"
	"errors"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IdentityKey is the store key under which the client identifier is kept.
const IdentityKey = "murmur_client_id"

// Identity hands out the durable per-install client identifier that tags
// every chat request.
type Identity struct {
	store KeyValueStore
	opts  options

	mu sync.Mutex
	id string
}

// NewIdentity creates an Identity backed by store. A nil store keeps the
// identifier in memory only.
func NewIdentity(store KeyValueStore, opts ...Option) *Identity {
	return &Identity{store: store, opts: newOptions(opts)}
}

// GetOrCreate returns the persisted identifier, generating and persisting one
// on first use. It never fails: when the store is unavailable the generated
// identifier lives in memory for the lifetime of the Identity.
func (i *Identity) GetOrCreate(ctx context.Context) string {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.id != "" {
		return i.id
	}

	if i.store != nil {
		id, err := i.store.Get(ctx, IdentityKey)
		switch {
		case err == nil && id != "":
			i.id = id
			return id
		case err != nil && !errors.Is(err, ErrNotFound):
			i.opts.logger.Warn("identity store unavailable", "error", err)
		}
	}

	i.id = newClientID()
	if i.store != nil {
		if err := i.store.Set(ctx, IdentityKey, i.id); err != nil {
			i.opts.logger.Warn("persist identity", "error", err)
		}
	}
	return i.id
}

// newClientID returns a random UUID, or a time plus random fallback when the
// system random source fails.
func newClientID() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + strconv.FormatUint(rand.Uint64(), 36)
}

// ShortTag returns the last six characters of id, used to label a session on
// screen.
func ShortTag(id string) string {
	if len(id) <= 6 {
		return id
	}
	return id[len(id)-6:]
}
