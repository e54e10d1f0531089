package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeKV records the command sequence the counter store issues.
type fakeKV struct {
	count     int64
	ttl       time.Duration
	expireNx  []bool
	incrErr   error
	expireErr error
}

func (f *fakeKV) Get(context.Context, string) ([]byte, error)                     { return nil, nil }
func (f *fakeKV) Set(context.Context, string, []byte) error                       { return nil }
func (f *fakeKV) SetWithTTL(context.Context, string, []byte, time.Duration) error { return nil }

func (f *fakeKV) IncrBy(_ context.Context, _ string, val int64) (int64, error) {
	if f.incrErr != nil {
		return 0, f.incrErr
	}
	f.count += val
	return f.count, nil
}

func (f *fakeKV) Expire(_ context.Context, _ string, ttl time.Duration, nx bool) error {
	if f.expireErr != nil {
		return f.expireErr
	}
	f.expireNx = append(f.expireNx, nx)
	if f.ttl == 0 || !nx {
		f.ttl = ttl
	}
	return nil
}

func (f *fakeKV) TTL(context.Context, string) (time.Duration, error) {
	return f.ttl, nil
}

func TestKVStore_IncrCountsAndStartsWindowOnce(t *testing.T) {
	kv := &fakeKV{}
	s := NewKVStore(kv)

	for i := int64(1); i <= 3; i++ {
		count, remaining, err := s.Incr(context.Background(), "k", time.Minute)
		if err != nil {
			t.Fatalf("incr %d: %v", i, err)
		}
		if count != i {
			t.Errorf("count = %d, want %d", count, i)
		}
		if remaining != time.Minute {
			t.Errorf("remaining = %v, want %v", remaining, time.Minute)
		}
	}

	for _, nx := range kv.expireNx {
		if !nx {
			t.Error("EXPIRE must be issued with NX so the window never extends")
		}
	}
}

func TestKVStore_IncrPropagatesErrors(t *testing.T) {
	wantErr := errors.New("connection reset")
	s := NewKVStore(&fakeKV{incrErr: wantErr})
	if _, _, err := s.Incr(context.Background(), "k", time.Minute); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want wrapped %v", err, wantErr)
	}

	s = NewKVStore(&fakeKV{expireErr: wantErr})
	if _, _, err := s.Incr(context.Background(), "k", time.Minute); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want wrapped %v", err, wantErr)
	}
}
