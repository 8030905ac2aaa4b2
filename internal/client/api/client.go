// Package api is the thin HTTP client the capture and feed components
// use to talk to the askloop server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/askloop/askloop/internal/model"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Videos fetches the feed listing.
func (c *Client) Videos(ctx context.Context) ([]model.FeedItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/videos", nil)
	if err != nil {
		return nil, err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch videos: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return nil, apiError(res)
	}

	var items []model.FeedItem
	err = json.NewDecoder(res.Body).Decode(&items)
	if err != nil {
		return nil, fmt.Errorf("failed to decode videos: %w", err)
	}

	return items, nil
}

// Upload sends a submission as a multipart POST /videos and returns the
// created feed item. A single attempt, no retry: on error the caller's
// submission state is untouched.
func (c *Client) Upload(ctx context.Context, sub model.Submission, filename string) (*model.FeedItem, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	err := mw.WriteField("title", sub.Title)
	if err != nil {
		return nil, err
	}
	if sub.Responder != "" {
		err = mw.WriteField("responder", sub.Responder)
		if err != nil {
			return nil, err
		}
	}

	if sub.Kind == model.KindText {
		err = mw.WriteField("text", string(sub.Payload))
		if err != nil {
			return nil, err
		}
	} else {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
		header.Set("Content-Type", sub.ContentType)

		part, err := mw.CreatePart(header)
		if err != nil {
			return nil, err
		}
		_, err = part.Write(sub.Payload)
		if err != nil {
			return nil, err
		}
	}

	err = mw.Close()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/videos", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusCreated {
		return nil, apiError(res)
	}

	var item model.FeedItem
	err = json.NewDecoder(res.Body).Decode(&item)
	if err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}

	return &item, nil
}

// Responders fetches the directory, optionally filtered by query.
func (c *Client) Responders(ctx context.Context, query string) ([]model.Responder, error) {
	u := c.baseURL + "/responders"
	if query != "" {
		u += "?q=" + url.QueryEscape(query)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch responders: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return nil, apiError(res)
	}

	var responders []model.Responder
	err = json.NewDecoder(res.Body).Decode(&responders)
	if err != nil {
		return nil, fmt.Errorf("failed to decode responders: %w", err)
	}

	return responders, nil
}

func apiError(res *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))

	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return fmt.Errorf("server returned %d: %s", res.StatusCode, e.Error)
	}
	return fmt.Errorf("server returned %d", res.StatusCode)
}
