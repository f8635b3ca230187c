package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"filter-studio/internal/kv"
)

// failingStore rejects every operation the way a full or disabled medium would.
type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, fmt.Errorf("%w: disk full", kv.ErrStorageUnavailable)
}

func (failingStore) Set(context.Context, string, string) error {
	return fmt.Errorf("%w: disk full", kv.ErrStorageUnavailable)
}

func (failingStore) Remove(context.Context, string) error {
	return fmt.Errorf("%w: disk full", kv.ErrStorageUnavailable)
}

// readOnlyStore serves reads from an underlying store and rejects writes.
type readOnlyStore struct{ kv.Store }

func (readOnlyStore) Set(context.Context, string, string) error {
	return errors.Join(kv.ErrStorageUnavailable, errors.New("read-only"))
}

// stepClock returns a time that advances by one millisecond per call.
func stepClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(time.Millisecond)
		return t
	}
}

func seqIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}
