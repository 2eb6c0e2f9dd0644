package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSSEHub_DishCategoryChanged(t *testing.T) {
	h := NewSSEHub(nil)

	cat, cancelCat := h.Subscribe([]string{TopicCategory(3)}, 4)
	defer cancelCat()
	menu, cancelMenu := h.Subscribe([]string{TopicMenu()}, 4)
	defer cancelMenu()
	other, cancelOther := h.Subscribe([]string{TopicCategory(4)}, 4)
	defer cancelOther()

	h.DishCategoryChanged(3)

	for _, ch := range []<-chan SSEEvent{cat, menu} {
		select {
		case ev := <-ch:
			assert.Equal(t, EventDishChanged, ev.Type)
			data, ok := ev.Data.(DishChanged)
			require.True(t, ok)
			assert.Equal(t, int64(3), data.CategoryID)
		default:
			t.Fatal("expected an event")
		}
	}
	select {
	case ev := <-other:
		t.Fatalf("unexpected event %v", ev)
	default:
	}
}

func TestSSEHub_CancelAndSlowConsumer(t *testing.T) {
	h := NewSSEHub(nil)
	ch, cancel := h.Subscribe([]string{TopicMenu()}, 1)
	assert.Equal(t, 1, h.Subscribers(TopicMenu()))

	// the second event is dropped, not blocked on
	h.DishCategoryChanged(1)
	h.DishCategoryChanged(2)
	assert.Len(t, ch, 1)

	cancel()
	cancel()
	assert.Equal(t, 0, h.Subscribers(TopicMenu()))
	_, open := <-ch
	assert.True(t, open, "buffered event is still readable")
	_, open = <-ch
	assert.False(t, open)
}
