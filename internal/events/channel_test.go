package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannel_PublishInSubscriptionOrder(t *testing.T) {
	ch := NewChannel()
	var got []string

	ch.Subscribe(TopicCartChanged, func(p interface{}) { got = append(got, "first:"+p.(string)) })
	ch.Subscribe(TopicCartChanged, func(p interface{}) { got = append(got, "second:"+p.(string)) })
	ch.Subscribe(TopicCartOpen, func(p interface{}) { got = append(got, "open") })

	ch.Publish(TopicCartChanged, "x")

	assert.Equal(t, []string{"first:x", "second:x"}, got)
}

func TestChannel_PublishWithoutSubscribers(t *testing.T) {
	ch := NewChannel()
	assert.NotPanics(t, func() { ch.Publish("nobody", nil) })
	assert.Empty(t, ch.Topics())
}

func TestChannel_Unsubscribe(t *testing.T) {
	ch := NewChannel()
	calls := map[string]int{}

	unsubA := ch.Subscribe(TopicCartOpen, func(interface{}) { calls["a"]++ })
	ch.Subscribe(TopicCartOpen, func(interface{}) { calls["b"]++ })

	ch.Publish(TopicCartOpen, nil)
	unsubA()
	unsubA()
	ch.Publish(TopicCartOpen, nil)

	assert.Equal(t, 1, calls["a"])
	assert.Equal(t, 2, calls["b"])
	assert.Equal(t, 1, ch.SubscriberCount(TopicCartOpen))
}

func TestChannel_EmptyTopicRemains(t *testing.T) {
	ch := NewChannel()

	unsub := ch.Subscribe(TopicCartOpen, func(interface{}) {})
	unsub()

	assert.Equal(t, []string{TopicCartOpen}, ch.Topics())
	assert.Equal(t, 0, ch.SubscriberCount(TopicCartOpen))
	assert.NotPanics(t, func() { ch.Publish(TopicCartOpen, nil) })
}

func TestChannel_HandlerMayUnsubscribeDuringPublish(t *testing.T) {
	ch := NewChannel()
	calls := 0

	var unsub func()
	unsub = ch.Subscribe(TopicCartChanged, func(interface{}) {
		calls++
		unsub()
	})
	ch.Subscribe(TopicCartChanged, func(interface{}) { calls++ })

	ch.Publish(TopicCartChanged, nil)
	ch.Publish(TopicCartChanged, nil)

	assert.Equal(t, 3, calls)
}

func TestChannel_ConcurrentUse(t *testing.T) {
	ch := NewChannel()
	var mu sync.Mutex
	total := 0

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unsub := ch.Subscribe(TopicCartChanged, func(interface{}) {
				mu.Lock()
				total++
				mu.Unlock()
			})
			ch.Publish(TopicCartOpen, nil)
			unsub()
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, ch.SubscriberCount(TopicCartChanged))
	assert.Equal(t, 0, total)
}
