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

// SpeechToText sends captured audio for transcription. language is an
// optional BCP-47 tag; empty lets the backend auto-detect.
func (c *Client) SpeechToText(ctx context.Context, filename string, audio io.Reader, language string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("audio_file", filename)
	if err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to build audio form", Cause: err}
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to read audio", Cause: err}
	}
	if language != "" {
		if err := writer.WriteField("language", language); err != nil {
			return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to build audio form", Cause: err}
		}
	}
	if err := writer.Close(); err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to finalize audio form", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/api/stt"), &body)
	if err != nil {
		return "", &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result sttResponse
	if err := decodeResponse(resp, &result); err != nil {
		return "", err
	}
	if !result.Success {
		return "", &ClientError{Type: ErrTypeSemantic, Message: "transcription failed"}
	}
	return result.Text, nil
}
