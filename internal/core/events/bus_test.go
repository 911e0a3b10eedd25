package events

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/timeline/internal/core/models"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()

	var got []Change
	_, err := b.Subscribe(TypeChanged, func(e Event) error {
		c, ok := ChangeOf(e)
		require.True(t, ok)
		got = append(got, c)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, b.Publish(NewChange(TypeChanged, Change{Version: 1, Command: "add_text"})))
	require.NoError(t, b.Publish(NewChange(TypeUndone, Change{Version: 2})))

	require.Len(t, got, 1)
	assert.Equal(t, uint64(1), got[0].Version)
	assert.Equal(t, "add_text", got[0].Command)
}

func TestSubscribeAllAndCancel(t *testing.T) {
	b := New()
	count := 0
	sub, err := b.SubscribeAll(func(Event) error { count++; return nil })
	require.NoError(t, err)

	_ = b.Publish(NewChange(TypeChanged, Change{}))
	_ = b.Publish(NewEvent("other", "test", nil))
	require.Equal(t, 2, count)
	require.Equal(t, uint64(1), b.Metrics().SubscribersActive)

	require.NoError(t, b.Unsubscribe(sub))
	require.NoError(t, sub.Cancel())
	require.False(t, sub.IsActive())
	_ = b.Publish(NewChange(TypeChanged, Change{}))
	require.Equal(t, 2, count)
	require.Equal(t, uint64(0), b.Metrics().SubscribersActive)
}

func TestPublishJoinsErrors(t *testing.T) {
	b := New()
	errA := errors.New("a")
	errB := errors.New("b")
	_, _ = b.Subscribe(TypeChanged, func(Event) error { return errA })
	_, _ = b.Subscribe(TypeChanged, func(Event) error { return errB })

	err := b.Publish(NewChange(TypeChanged, Change{}))
	require.ErrorIs(t, err, errA)
	require.ErrorIs(t, err, errB)

	m := b.Metrics()
	assert.Equal(t, uint64(1), m.Published)
	assert.Equal(t, uint64(2), m.DeliveredHandlers)
	assert.Equal(t, uint64(1), m.Errors)

	select {
	case err = <-b.PublishAsync(NewChange(TypeChanged, Change{})):
		require.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("async publish did not complete")
	}
}

func TestSubscribeValidation(t *testing.T) {
	b := New()
	_, err := b.Subscribe("", func(Event) error { return nil })
	require.ErrorIs(t, err, ErrEmptyEventType)
	_, err = b.Subscribe(TypeChanged, nil)
	require.ErrorIs(t, err, ErrNilHandler)
	require.NoError(t, b.Unsubscribe(nil))
}

func TestFilteredByKind(t *testing.T) {
	b := New()
	count := 0
	_, _ = b.SubscribeAll(Filtered(func(Event) error { count++; return nil }, OfKind(string(models.KindText))))

	_ = b.Publish(NewChange(TypeChanged, Change{Kinds: []models.Kind{models.KindShape}}))
	_ = b.Publish(NewChange(TypeChanged, Change{Kinds: []models.Kind{models.KindText}}))
	_ = b.Publish(NewEvent(TypeChanged, "test", "not a change"))
	require.Equal(t, 1, count)
}

func TestConcurrentPublish(t *testing.T) {
	b := New()
	var mu sync.Mutex
	count := 0
	_, _ = b.Subscribe(TypeChanged, func(Event) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = b.Publish(NewChange(TypeChanged, Change{}))
		}()
	}
	wg.Wait()
	require.Equal(t, 50, count)
}
