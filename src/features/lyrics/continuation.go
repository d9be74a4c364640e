package lyrics

import (
	"errors"
	"fmt"

	"github.com/contre95/soullyrics/src/music"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrInvalidContinuation is returned for unknown, evicted or foreign continuation
// tokens, and for tokens reused with a different sync preference.
var ErrInvalidContinuation = errors.New("invalid continuation token")

// DefaultContinuationSlots bounds how many continuation tokens are remembered.
const DefaultContinuationSlots = 256

type continuation struct {
	trackKey string
	cursor   music.Cursor
	sync     bool
}

// continuations maps opaque tokens to resolution cursors. State lives in memory only
// and is lost on restart.
type continuations struct {
	tokens *lru.Cache[string, continuation]
}

func newContinuations(size int) (*continuations, error) {
	if size <= 0 {
		size = DefaultContinuationSlots
	}
	tokens, err := lru.New[string, continuation](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create continuation store: %w", err)
	}
	return &continuations{tokens: tokens}, nil
}

// issue stores the cursor for trackKey and returns a new token for it.
func (c *continuations) issue(trackKey string, cursor music.Cursor, sync bool) string {
	token := uuid.NewString()
	c.tokens.Add(token, continuation{trackKey: trackKey, cursor: cursor, sync: sync})
	return token
}

// resolve returns the cursor behind token. The token must have been issued for
// trackKey with the same sync preference: the local provider is inserted per list,
// so a cursor only indexes the lists the way the issuing lookup saw them.
func (c *continuations) resolve(token, trackKey string, sync bool) (continuation, error) {
	if _, err := uuid.Parse(token); err != nil {
		return continuation{}, fmt.Errorf("%w: malformed token", ErrInvalidContinuation)
	}
	state, ok := c.tokens.Get(token)
	if !ok {
		return continuation{}, fmt.Errorf("%w: unknown or expired token", ErrInvalidContinuation)
	}
	if state.trackKey != trackKey {
		return continuation{}, fmt.Errorf("%w: token belongs to another track", ErrInvalidContinuation)
	}
	if state.sync != sync {
		return continuation{}, fmt.Errorf("%w: token was issued for sync=%t", ErrInvalidContinuation, state.sync)
	}
	return state, nil
}

// Len reports how many tokens are remembered.
func (c *continuations) Len() int {
	return c.tokens.Len()
}
