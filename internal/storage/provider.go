// Package storage reads and writes catalog documents on local disk or in S3.
package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"strings"
)

// Provider reads and writes named documents.
// Read failures are returned as *model.ReadError and write failures as *model.WriteError.
type Provider interface {
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, data []byte) error
}

func compressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}

// decodeBody reads r fully, inflating it when path names a gzip document.
func decodeBody(path string, r io.Reader) ([]byte, error) {
	if !compressed(path) {
		return io.ReadAll(r)
	}

	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	return io.ReadAll(gzipReader)
}

// encodeBody returns the bytes to store for path, deflating them for gzip documents.
func encodeBody(path string, data []byte) ([]byte, error) {
	if !compressed(path) {
		return data, nil
	}

	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	if _, err := gzipWriter.Write(data); err != nil {
		return nil, fmt.Errorf("failed to compress document: %w", err)
	}
	if err := gzipWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress document: %w", err)
	}
	return buf.Bytes(), nil
}
