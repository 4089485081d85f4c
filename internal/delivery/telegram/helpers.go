package telegram

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// download fetches a file the owner sent to the bot, refusing files larger than limit.
func (h *Handler) download(ctx context.Context, fileID string, limit int64) ([]byte, error) {
	url, err := h.bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %s", resp.Status)
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if n > limit {
		return nil, errFileTooLarge
	}
	return buf.Bytes(), nil
}
