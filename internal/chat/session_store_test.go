package chat_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"go-leavebot/internal/chat"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("get or create returns a fresh session once", func(t *testing.T) {
		store := chat.NewMemoryStore()

		s, err := store.GetOrCreate(ctx, "a")
		assert.NoError(t, err)
		assert.Equal(t, chat.StepName, s.Step)

		s.Slots.Name = "Jane Doe"
		assert.NoError(t, store.Replace(ctx, "a", s))

		again, err := store.GetOrCreate(ctx, "a")
		assert.NoError(t, err)
		assert.Equal(t, "Jane Doe", again.Slots.Name)
	})

	t.Run("returned sessions are copies", func(t *testing.T) {
		store := chat.NewMemoryStore()

		s, _ := store.GetOrCreate(ctx, "a")
		s.Slots.Name = "mutated locally"

		again, _ := store.GetOrCreate(ctx, "a")
		assert.Empty(t, again.Slots.Name)
	})

	t.Run("clear removes the session", func(t *testing.T) {
		store := chat.NewMemoryStore()

		s, _ := store.GetOrCreate(ctx, "a")
		s.Slots.Name = "Jane Doe"
		assert.NoError(t, store.Replace(ctx, "a", s))
		assert.NoError(t, store.Clear(ctx, "a"))

		again, _ := store.GetOrCreate(ctx, "a")
		assert.Empty(t, again.Slots.Name)
	})

	t.Run("concurrent access on distinct keys", func(t *testing.T) {
		store := chat.NewMemoryStore()

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				key := fmt.Sprintf("session-%d", i)
				s, err := store.GetOrCreate(ctx, key)
				assert.NoError(t, err)
				s.Slots.Name = key
				assert.NoError(t, store.Replace(ctx, key, s))
			}(i)
		}
		wg.Wait()

		for i := 0; i < 50; i++ {
			key := fmt.Sprintf("session-%d", i)
			s, err := store.GetOrCreate(ctx, key)
			assert.NoError(t, err)
			assert.Equal(t, key, s.Slots.Name)
		}
	})
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	key := "chat:session:abc"

	t.Run("miss creates and persists an empty session", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		store := chat.NewRedisStore(rdb)

		fresh, _ := json.Marshal(chat.NewSession())
		mock.ExpectGet(key).RedisNil()
		mock.ExpectSet(key, fresh, 24*time.Hour).SetVal("OK")

		s, err := store.GetOrCreate(ctx, "abc")
		assert.NoError(t, err)
		assert.Equal(t, chat.StepName, s.Step)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("hit round-trips the full session", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		store := chat.NewRedisStore(rdb)

		stored := chat.NewSession()
		stored.Step = chat.StepEnd
		stored.Slots = chat.Slots{
			Name:      "Jane Doe",
			Email:     "jane@x.org",
			LeaveType: "Personal",
			StartDate: "2024-03-01",
		}
		payload, _ := json.Marshal(stored)
		mock.ExpectGet(key).SetVal(string(payload))

		s, err := store.GetOrCreate(ctx, "abc")
		assert.NoError(t, err)
		assert.Equal(t, chat.StepEnd, s.Step)
		assert.Equal(t, "jane@x.org", s.Slots.Email)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replace writes with a ttl", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		store := chat.NewRedisStore(rdb)

		s := chat.NewSession()
		s.Slots.Name = "Jane Doe"
		payload, _ := json.Marshal(s)
		mock.ExpectSet(key, payload, 24*time.Hour).SetVal("OK")

		assert.NoError(t, store.Replace(ctx, "abc", s))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("clear deletes the key", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		store := chat.NewRedisStore(rdb)

		mock.ExpectDel(key).SetVal(1)

		assert.NoError(t, store.Clear(ctx, "abc"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
