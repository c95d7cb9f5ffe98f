package notify_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"go-leavebot/internal/notify"

	"github.com/stretchr/testify/assert"
)

func sampleDocument() notify.Document {
	return notify.Document{
		ID:        7,
		Name:      "Jane Doe",
		Email:     "jane@x.org",
		LeaveType: "Personal",
		StartDate: "2024-03-01",
		EndDate:   "2024-03-05",
		Reason:    "Viaje familiar (con escalas)",
		Status:    "Pending",
		CreatedAt: "2024-02-20T10:00:00Z",
	}
}

func TestRenderer_Render(t *testing.T) {
	t.Run("writes a pdf named after the request id", func(t *testing.T) {
		dir := t.TempDir()
		renderer := notify.NewRenderer(dir)

		path, err := renderer.Render(sampleDocument())
		assert.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "solicitud_7.pdf"), path)

		data, err := os.ReadFile(path)
		assert.NoError(t, err)
		assert.True(t, len(data) > 0)
		assert.Equal(t, "%PDF-1.4", string(data[:8]))
		assert.Contains(t, string(data), "Jane Doe")
		assert.Contains(t, string(data), "Viaje familiar \\(con escalas\\)")
	})

	t.Run("re-rendering overwrites the same file", func(t *testing.T) {
		dir := t.TempDir()
		renderer := notify.NewRenderer(dir)

		doc := sampleDocument()
		first, err := renderer.Render(doc)
		assert.NoError(t, err)

		doc.Status = "Approved"
		second, err := renderer.Render(doc)
		assert.NoError(t, err)
		assert.Equal(t, first, second)

		data, err := os.ReadFile(second)
		assert.NoError(t, err)
		assert.Contains(t, string(data), "Approved")

		entries, err := os.ReadDir(dir)
		assert.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("creates the directory on first render", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "documents")
		renderer := notify.NewRenderer(dir)

		path, err := renderer.Render(sampleDocument())
		assert.NoError(t, err)

		_, err = os.Stat(path)
		assert.NoError(t, err)
	})

	t.Run("concurrent renders of the same request", func(t *testing.T) {
		dir := t.TempDir()
		renderer := notify.NewRenderer(dir)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				path, err := renderer.Render(sampleDocument())
				assert.NoError(t, err)
				assert.Equal(t, filepath.Join(dir, "solicitud_7.pdf"), path)
			}()
		}
		wg.Wait()

		entries, err := os.ReadDir(dir)
		assert.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}
