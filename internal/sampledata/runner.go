package sampledata

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"

	"github.com/okian/formline/pkg/logger"
)

const filePermission = 0o600

// WriteFiles writes the batch as three CSV files under dir, creating it if
// needed.
func WriteFiles(ctx context.Context, batch Batch, dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for name, content := range batch.Files() {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, content, filePermission); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		logger.Get().Info(ctx, "wrote sample file",
			logger.String("path", path),
			logger.Int("bytes", len(content)),
		)
	}
	return nil
}

// Post uploads the batch to a running analyzer's /analyze endpoint and
// returns the raw response body.
func Post(ctx context.Context, client *http.Client, baseURL string, batch Batch) ([]byte, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	// Stable order keeps generated requests reproducible.
	files := batch.Files()
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			return nil, fmt.Errorf("build upload: %w", err)
		}
		if _, err := fw.Write(files[name]); err != nil {
			return nil, fmt.Errorf("build upload: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/analyze", body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post batch: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return payload, fmt.Errorf("analyze returned %s", resp.Status)
	}
	logger.Get().Info(ctx, "batch analyzed",
		logger.String("status", resp.Status),
		logger.Int("responseBytes", len(payload)),
	)
	return payload, nil
}
