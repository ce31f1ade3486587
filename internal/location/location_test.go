package location

import (
	"context"
	"testing"

	"github.com/asklens-labs/asklens/internal/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blockingProvider struct{}

func (blockingProvider) Current(ctx context.Context) (backend.Point, error) {
	<-ctx.Done()
	return backend.Point{}, ctx.Err()
}

func TestAcquire_Static(t *testing.T) {
	pt, err := Acquire(context.Background(), Static{Point: backend.Point{Latitude: 40.713, Longitude: -74.006}})
	require.NoError(t, err)
	assert.Equal(t, 40.713, pt.Latitude)
}

func TestAcquire_NilProvider(t *testing.T) {
	pt, err := Acquire(context.Background(), nil)
	assert.Nil(t, pt)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestAcquire_Disabled(t *testing.T) {
	pt, err := Acquire(context.Background(), Disabled{})
	assert.Nil(t, pt)
	assert.Error(t, err)
}

func TestAcquire_HonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pt, err := Acquire(ctx, blockingProvider{})
	assert.Nil(t, pt)
	assert.Error(t, err)
}
