// Package idempotency lets a client retry a request under the same key and get
// the first outcome back instead of running the work twice. State lives in
// Redis so every instance of the service sees it.
package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrInProgress means another request holding the key has not finished.
	ErrInProgress = errors.New("idempotency: request in progress")
	// ErrReplayed accompanies the stored result of a finished request.
	ErrReplayed = errors.New("idempotency: request already completed")
	// ErrMismatch means the key was first used for a different payload.
	ErrMismatch = errors.New("idempotency: key reused with a different payload")
	// ErrFinish means fn ran but its outcome could not be recorded.
	ErrFinish = errors.New("idempotency: outcome not recorded")
)

// Idempotency runs fn at most once per key while the key is remembered.
//
// fingerprint identifies the payload; reusing a key for another payload is an
// error rather than a silent replay. A failing fn releases the key so the
// client may retry with it.
type Idempotency interface {
	Exec(ctx context.Context, key, fingerprint string, fn func(context.Context) (string, error), opts ...Option) (string, error)
}

const (
	defaultLockDuration = time.Minute
	defaultStateTTL     = 10 * time.Minute
	keyPrefix           = "otpgate:idempotency:"
)

type Option func(*execOptions)

type execOptions struct {
	lockDuration time.Duration
	stateTTL     time.Duration
}

// WithLockDuration bounds how long a crashed request can block its key.
func WithLockDuration(d time.Duration) Option {
	return func(o *execOptions) { o.lockDuration = d }
}

// WithStateTTL sets how long a finished result is replayed.
func WithStateTTL(d time.Duration) Option {
	return func(o *execOptions) { o.stateTTL = d }
}

// entry is the JSON value stored under a key. Owner is set while in progress
// so only the holder can release or finish it.
type entry struct {
	Owner       string `json:"o,omitempty"`
	Fingerprint string `json:"f"`
	Done        bool   `json:"d,omitempty"`
	Result      string `json:"r,omitempty"`
}

var (
	// returns the current value, or nil after claiming the key
	claimScript = redis.NewScript(`
local v = redis.call('GET', KEYS[1])
if v then return v end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
return false`)

	// replaces the value only while ARGV[1] still holds the key
	finishScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) ~= ARGV[1] then return 0 end
if ARGV[2] == '' then
	redis.call('DEL', KEYS[1])
else
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
end
return 1`)
)

// Tracker implements Idempotency on Redis.
type Tracker struct {
	client redis.Scripter
}

func New(client redis.Scripter) *Tracker {
	return &Tracker{client: client}
}

func (t *Tracker) Exec(
	ctx context.Context,
	key, fingerprint string,
	fn func(context.Context) (string, error),
	opts ...Option,
) (string, error) {
	o := execOptions{lockDuration: defaultLockDuration, stateTTL: defaultStateTTL}
	for _, opt := range opts {
		opt(&o)
	}
	if o.lockDuration <= 0 {
		o.lockDuration = defaultLockDuration
	}
	if o.stateTTL <= 0 {
		o.stateTTL = defaultStateTTL
	}

	rkey := keyPrefix + key
	claim, err := json.Marshal(entry{Owner: uuid.NewString(), Fingerprint: fingerprint})
	if err != nil {
		return "", err
	}

	current, err := claimScript.Run(ctx, t.client, []string{rkey}, claim, o.lockDuration.Milliseconds()).Text()
	switch {
	case errors.Is(err, redis.Nil):
		// claimed
	case err != nil:
		return "", fmt.Errorf("idempotency: claim %s: %w", key, err)
	default:
		return replay(current, fingerprint)
	}

	result, runErr := fn(ctx)

	var next string
	if runErr == nil {
		done, err := json.Marshal(entry{Fingerprint: fingerprint, Done: true, Result: result})
		if err != nil {
			return "", err
		}
		next = string(done)
	}

	// a context cancelled by the caller must not leave the key locked
	finishCtx := context.WithoutCancel(ctx)
	if err := finishScript.Run(finishCtx, t.client, []string{rkey}, claim, next, o.stateTTL.Milliseconds()).Err(); err != nil {
		return result, errors.Join(runErr, fmt.Errorf("%w: %s: %w", ErrFinish, key, err))
	}

	return result, runErr
}

func replay(raw, fingerprint string) (string, error) {
	var e entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return "", fmt.Errorf("idempotency: decode state: %w", err)
	}

	switch {
	case e.Fingerprint != fingerprint:
		return "", ErrMismatch
	case !e.Done:
		return "", ErrInProgress
	default:
		return e.Result, ErrReplayed
	}
}
