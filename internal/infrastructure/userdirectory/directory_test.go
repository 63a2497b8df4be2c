package userdirectory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentbridge/marketplace-api/internal/domain/user"
)

func TestRemoteDirectory_FindByID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/users/tal-1":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"fullName": "Grace", "profileImage": "https://cdn/g.png"})
		case "/v1/users/broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	dir := NewRemoteDirectory(server.URL, time.Second)
	ctx := context.Background()

	info, err := dir.FindByID(ctx, "tal-1")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "Grace", info.FullName)
	assert.Equal(t, "https://cdn/g.png", info.ProfileImage)

	info, err = dir.FindByID(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, info)

	_, err = dir.FindByID(ctx, "broken")
	require.Error(t, err)
}

type countingDirectory struct {
	calls atomic.Int32
	data  map[string]user.DisplayInfo
	err   error
}

func (d *countingDirectory) FindByID(ctx context.Context, id string) (*user.DisplayInfo, error) {
	d.calls.Add(1)
	if d.err != nil {
		return nil, d.err
	}
	info, ok := d.data[id]
	if !ok {
		return nil, nil
	}
	return &info, nil
}

func TestCachedDirectory_CachesHitsOnly(t *testing.T) {
	next := &countingDirectory{data: map[string]user.DisplayInfo{"rec-1": {FullName: "Ada"}}}
	dir, err := NewCachedDirectory(next, 8, time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		info, err := dir.FindByID(ctx, "rec-1")
		require.NoError(t, err)
		assert.Equal(t, "Ada", info.FullName)
	}
	assert.Equal(t, int32(1), next.calls.Load())

	for i := 0; i < 2; i++ {
		info, err := dir.FindByID(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, info)
	}
	assert.Equal(t, int32(3), next.calls.Load())
}

func TestCachedDirectory_ExpiresEntries(t *testing.T) {
	next := &countingDirectory{data: map[string]user.DisplayInfo{"rec-1": {FullName: "Ada"}}}
	dir, err := NewCachedDirectory(next, 8, time.Minute)
	require.NoError(t, err)

	now := time.Now()
	dir.now = func() time.Time { return now }
	_, _ = dir.FindByID(context.Background(), "rec-1")

	now = now.Add(2 * time.Minute)
	_, _ = dir.FindByID(context.Background(), "rec-1")
	assert.Equal(t, int32(2), next.calls.Load())
}

func TestCachedDirectory_PropagatesErrors(t *testing.T) {
	next := &countingDirectory{err: errors.New("directory down")}
	dir, err := NewCachedDirectory(next, 8, time.Minute)
	require.NoError(t, err)

	_, err = dir.FindByID(context.Background(), "rec-1")
	require.Error(t, err)
}
