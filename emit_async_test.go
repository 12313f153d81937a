package broker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitAsync_DeliversBothKinds(t *testing.T) {
	b := New(WithLogger(discardLogger()))

	var order []string
	_, err := b.Subscribe("job.done", recordingCallback(&order, "sync"), WithPriority(5))
	require.NoError(t, err)
	_, err = b.Subscribe("job.done", recordingCallback(&order, "async"), WithPriority(10), WithAsync())
	require.NoError(t, err)

	status, err := b.EmitAsync(context.Background(), "job.done", nil)
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, status)

	// One global order across both kinds.
	assert.Equal(t, []string{"async", "sync"}, order)
}

func TestEmit_SkipsAsyncSubscribers(t *testing.T) {
	b := New(WithLogger(discardLogger()))

	var order []string
	_, err := b.Subscribe("job.done", recordingCallback(&order, "sync"))
	require.NoError(t, err)
	_, err = b.Subscribe("job.done", recordingCallback(&order, "async"), WithAsync())
	require.NoError(t, err)

	_, err = b.Emit("job.done", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"sync"}, order)
}

func TestEmitAsync_ContextCancellationAborts(t *testing.T) {
	b := New(WithLogger(discardLogger()))

	ctx, cancel := context.WithCancel(context.Background())

	var order []string
	_, err := b.Subscribe("job.done", func(c context.Context, args Args) error {
		order = append(order, "first")
		cancel()
		return nil
	}, WithPriority(10))
	require.NoError(t, err)
	_, err = b.Subscribe("job.done", recordingCallback(&order, "second"), WithPriority(1))
	require.NoError(t, err)

	_, err = b.EmitAsync(ctx, "job.done", nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"first"}, order)
}

func TestEmitAsync_PreCancelledContext(t *testing.T) {
	b := New(WithLogger(discardLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var order []string
	_, err := b.Subscribe("job.done", recordingCallback(&order, "never"))
	require.NoError(t, err)

	_, err = b.EmitAsync(ctx, "job.done", nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, order)
}

func TestEmitAsync_CallbackReceivesContext(t *testing.T) {
	type key struct{}
	b := New(WithLogger(discardLogger()))

	var got any
	_, err := b.Subscribe("job.done", func(ctx context.Context, args Args) error {
		got = ctx.Value(key{})
		return nil
	}, WithAsync())
	require.NoError(t, err)

	ctx := context.WithValue(context.Background(), key{}, "payload")
	_, err = b.EmitAsync(ctx, "job.done", nil)
	require.NoError(t, err)
	assert.Equal(t, "payload", got)
}
