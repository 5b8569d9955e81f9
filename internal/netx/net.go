// Package netx holds the client side of the direct-upload flow: after
// the server issues a presigned write URL, the bytes are PUT straight
// to object storage without passing through the API.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// UploadToPresignedURL transfers body to a presigned PUT URL. The
// content type must match the one the URL was presigned for, otherwise
// the storage backend rejects the signature.
func UploadToPresignedURL(ctx context.Context, url, contentType string, body io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}
