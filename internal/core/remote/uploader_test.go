package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRows(n int) []Row {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = Row{Timestamp: base.Add(time.Duration(i) * time.Hour), Value: float64(i)}
	}
	return rows
}

func chunkServer(t *testing.T, sizes *[]int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name string `json:"name"`
			Rows []Row  `json:"rows"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		*sizes = append(*sizes, len(body.Rows))

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(DatasetReceipt{ID: "ds-1", Rows: len(body.Rows)}))
	}))
}

func TestUpload_ChunkSizes(t *testing.T) {
	var sizes []int
	srv := chunkServer(t, &sizes)
	defer srv.Close()

	u := NewUploader(testClient(srv.URL), 5000)
	receipts, err := u.Upload(context.Background(), "station42-2024", makeRows(12000))
	require.NoError(t, err)

	// 12000 rows at chunk size 5000: exactly three requests.
	assert.Equal(t, []int{5000, 5000, 2000}, sizes)
	require.Len(t, receipts, 3)
	assert.Equal(t, 1, receipts[0].Index)
	assert.Equal(t, 3, receipts[2].Index)
	assert.Equal(t, 2000, receipts[2].Rows)
}

func TestUpload_ExactMultipleNoEmptyTrailingChunk(t *testing.T) {
	var sizes []int
	srv := chunkServer(t, &sizes)
	defer srv.Close()

	u := NewUploader(testClient(srv.URL), 5000)
	receipts, err := u.Upload(context.Background(), "station42-2024", makeRows(10000))
	require.NoError(t, err)

	assert.Equal(t, []int{5000, 5000}, sizes)
	assert.Len(t, receipts, 2)
}

func TestUpload_NoRows(t *testing.T) {
	var sizes []int
	srv := chunkServer(t, &sizes)
	defer srv.Close()

	u := NewUploader(testClient(srv.URL), 5000)
	receipts, err := u.Upload(context.Background(), "station42-2024", nil)
	require.NoError(t, err)
	assert.Empty(t, receipts)
	assert.Empty(t, sizes)
}

func TestUpload_FailureKeepsEarlierChunks(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		if requests == 2 {
			http.Error(w, "payload rejected", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(DatasetReceipt{ID: "ds-1"})
	}))
	defer srv.Close()

	u := NewUploader(testClient(srv.URL), 100)
	receipts, err := u.Upload(context.Background(), "station42-2024", makeRows(250))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chunk 2")
	// The first chunk stays confirmed; no cross-chunk rollback.
	assert.Len(t, receipts, 1)
}

func TestNewUploader_DefaultChunkSize(t *testing.T) {
	u := NewUploader(nil, 0)
	assert.Equal(t, DefaultChunkSize, u.chunkSize)
}
