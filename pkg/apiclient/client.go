package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"rag-compare-be/internal/dto"
	"rag-compare-be/internal/pkg/serverutils"
	"rag-compare-be/pkg/session"
)

// Client is a thin JSON client for the comparison API. Calls fail loudly:
// there are no retries, and errors carry the server's message when one is
// available.
type Client struct {
	baseURL string
	httpc   *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// A comparison waits on two model round-trips.
		httpc: &http.Client{Timeout: 2 * time.Minute},
	}
}

// Compare submits a prompt and returns the dual-answer result. sessionID and
// topK are optional; zero values let the server decide.
func (c *Client) Compare(ctx context.Context, prompt, sessionID string, topK int) (*session.Comparison, error) {
	req := dto.CompareRequest{
		Prompt:    prompt,
		SessionId: sessionID,
		TopK:      topK,
	}

	var res session.Comparison
	if err := c.do(ctx, http.MethodPost, "/api/chat/compare", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListSessions fetches the authoritative session list, most recent first.
func (c *Client) ListSessions(ctx context.Context) ([]session.Session, error) {
	var res []session.Session
	if err := c.do(ctx, http.MethodGet, "/api/chat/sessions", nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// GetSession fetches one session with its full message history.
func (c *Client) GetSession(ctx context.Context, id string) (*session.Session, error) {
	var res session.Session
	if err := c.do(ctx, http.MethodGet, "/api/chat/sessions/"+id, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// DeleteSession removes one session server-side.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	var res dto.DeleteSessionResponse
	return c.do(ctx, http.MethodDelete, "/api/chat/sessions/"+id, nil, &res)
}

// DeleteAllSessions removes every session and reports how many were deleted.
func (c *Client) DeleteAllSessions(ctx context.Context) (int64, error) {
	var res dto.ClearSessionsResponse
	if err := c.do(ctx, http.MethodDelete, "/api/chat/sessions", nil, &res); err != nil {
		return 0, err
	}
	return res.Deleted, nil
}

// ListDocuments fetches the document inventory with ingest status.
func (c *Client) ListDocuments(ctx context.Context) ([]dto.DocumentResponse, error) {
	var res []dto.DocumentResponse
	if err := c.do(ctx, http.MethodGet, "/api/documents", nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// UploadDocument sends file contents as a multipart upload. Ingestion is
// asynchronous; the returned status starts out pending.
func (c *Client) UploadDocument(ctx context.Context, fileName string, data []byte) (*dto.UploadDocumentResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(fileName))
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/documents", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var res dto.UploadDocumentResponse
	if err := c.send(req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// do runs a JSON request against path and decodes the envelope's data field
// into out.
func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp.StatusCode, bodyBytes)
	}

	var envelope serverutils.BaseResponse[json.RawMessage]
	if err := json.Unmarshal(bodyBytes, &envelope); err != nil {
		return fmt.Errorf("malformed response: %w", err)
	}
	if out == nil || len(envelope.Data) == 0 {
		return nil
	}
	return json.Unmarshal(envelope.Data, out)
}

// apiError surfaces the envelope's message when the body parses, and the raw
// body otherwise.
func apiError(status int, body []byte) error {
	var envelope serverutils.BaseResponse[json.RawMessage]
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		return fmt.Errorf("api error (%d): %s", status, envelope.Message)
	}
	return fmt.Errorf("api error (%d): %s", status, string(body))
}
