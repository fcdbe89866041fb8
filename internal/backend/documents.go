// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
)

// =============================================================================
// DOCUMENT OPERATIONS
// =============================================================================

// ListDocuments returns the backend's document set.
//
// Failures are swallowed at this boundary: any transport or decode error
// yields an empty slice. Callers render "no documents" rather than an
// error state; the availability signal is fed by the mutating calls.
func (c *Client) ListDocuments(ctx context.Context) []Document {
	var resp listDocumentsResponse
	if err := c.getJSON(ctx, "/api/documents", &resp); err != nil {
		return []Document{}
	}
	if resp.Docs == nil {
		return []Document{}
	}
	return resp.Docs
}

// UploadDocument sends a file to the backend for ingestion. The reader is
// consumed fully; filename is the client-side name the backend indexes
// under.
func (c *Client) UploadDocument(ctx context.Context, filename string, r io.Reader) (*UploadResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to build upload form", Cause: err}
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to read upload file", Cause: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to finalize upload form", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/api/upload"), &body)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result UploadResult
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteDocument removes a document by id. A false result means the
// backend refused the deletion (semantic failure, not transport).
func (c *Client) DeleteDocument(ctx context.Context, id string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.url("/api/documents/"+id), nil)
	if err != nil {
		return false, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	var result successResponse
	if err := decodeResponse(resp, &result); err != nil {
		return false, err
	}
	return result.Success, nil
}
