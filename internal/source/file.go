package source

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// FileReader reads datasets from the local filesystem.
type FileReader struct{}

// ReadBlob implements BlobReader. A file:// prefix is optional.
func (FileReader) ReadBlob(ctx context.Context, uri string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := strings.TrimPrefix(uri, "file://")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %q: %w", path, err)
	}
	return data, nil
}
