package metadata

import (
	"context"
	"fmt"
	"time"
)

// GetTime reads an RFC 3339 timestamp stored under key. ok is false when the
// key is absent.
func GetTime(ctx context.Context, r Repository, key string) (t time.Time, ok bool, err error) {
	raw, err := r.Get(ctx, key)
	if err != nil || raw == nil {
		return time.Time{}, false, err
	}
	t, err = time.Parse(time.RFC3339Nano, string(raw))
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to parse metadata[%s]: %w", key, err)
	}
	return t, true, nil
}

// SetTime stores t under key in UTC.
func SetTime(ctx context.Context, r Repository, key string, t time.Time) error {
	return r.Set(ctx, key, []byte(t.UTC().Format(time.RFC3339Nano)))
}
