package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"reel/internal/api"
)

// apiClient talks to the daemon's HTTP surface.
type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(server string) *apiClient {
	server = strings.TrimSpace(server)
	if !strings.Contains(server, "://") {
		server = "http://" + server
	}
	return &apiClient{
		baseURL: strings.TrimRight(server, "/"),
		// No overall timeout: media streams for as long as it takes.
		http: &http.Client{},
	}
}

func (c *apiClient) getJSON(path string, out any) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return c.connectionError(err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *apiClient) postJSON(path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := c.http.Post(c.baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return c.connectionError(err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// postStream issues a request whose successful response is a media or
// archive stream, and writes it to outPath. An empty outPath derives the
// name from the Content-Disposition header into the working directory.
// Returns the path written and the byte count.
func (c *apiClient) postStream(path string, payload any, outPath string) (string, int64, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", 0, err
	}
	resp, err := c.http.Post(c.baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", 0, c.connectionError(err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return "", 0, decodeAPIError(resp)
	}

	target := strings.TrimSpace(outPath)
	if target == "" {
		target = dispositionFilename(resp.Header.Get("Content-Disposition"))
	}
	if target == "" {
		target = "download-" + time.Now().Format("20060102-150405")
	}

	file, err := os.Create(target)
	if err != nil {
		return "", 0, fmt.Errorf("create %s: %w", target, err)
	}
	written, copyErr := io.Copy(file, resp.Body)
	closeErr := file.Close()
	if copyErr != nil {
		return target, written, fmt.Errorf("write %s: %w", target, copyErr)
	}
	if closeErr != nil {
		return target, written, closeErr
	}
	return target, written, nil
}

func (c *apiClient) connectionError(err error) error {
	return fmt.Errorf("cannot reach daemon at %s (is reeld running?): %w", c.baseURL, err)
}

func decodeAPIError(resp *http.Response) error {
	var payload api.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.ErrorKind == "" {
		return fmt.Errorf("daemon returned %s", resp.Status)
	}
	msg := fmt.Sprintf("%s: %s", payload.ErrorKind, payload.Message)
	if payload.PlatformGuidance != "" {
		msg += "\n" + payload.PlatformGuidance
	}
	return errors.New(msg)
}

func dispositionFilename(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	name := strings.TrimSpace(params["filename"])
	if name == "" {
		return ""
	}
	return filepath.Base(name)
}
