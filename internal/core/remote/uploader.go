package remote

import (
	"context"
	"fmt"
)

// DefaultChunkSize bounds each upload request to the remote payload
// ceiling.
const DefaultChunkSize = 5000

// ChunkReceipt confirms one submitted chunk.
type ChunkReceipt struct {
	Index     int // 1-based chunk number
	Rows      int
	DatasetID string
}

// Uploader pushes a row set to the remote service under one dataset
// name, split into size-bounded chunks submitted strictly in order.
type Uploader struct {
	client    *Client
	chunkSize int
}

// NewUploader creates an uploader. chunkSize <= 0 selects the default.
func NewUploader(client *Client, chunkSize int) *Uploader {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Uploader{client: client, chunkSize: chunkSize}
}

// Upload submits rows in ceil(len(rows)/chunkSize) requests; an exact
// multiple of the chunk size sends no empty trailing request. Chunks
// are independent: a failure stops the loop and returns the receipts
// already confirmed, which stay committed remotely.
func (u *Uploader) Upload(ctx context.Context, name string, rows []Row) ([]ChunkReceipt, error) {
	var receipts []ChunkReceipt
	for start := 0; start < len(rows); start += u.chunkSize {
		end := start + u.chunkSize
		if end > len(rows) {
			end = len(rows)
		}

		receipt, err := u.client.CreateDataset(ctx, name, rows[start:end])
		if err != nil {
			return receipts, fmt.Errorf("chunk %d: %w", len(receipts)+1, err)
		}
		receipts = append(receipts, ChunkReceipt{
			Index:     len(receipts) + 1,
			Rows:      end - start,
			DatasetID: receipt.ID,
		})
	}
	return receipts, nil
}
