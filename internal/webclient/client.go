// Package webclient is the presentation tier's HTTP client for the plate
// catalog API. It mirrors the boundary contract: list with paging, sort and
// filter parameters, create under a caller-assigned id, and the reservation
// toggles.
package webclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"plateyard/internal/core/apperror"
	"plateyard/internal/core/id"
	"plateyard/internal/infrastructure/http/v1/dto"
)

// Client calls the plate catalog API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client against baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// ListParams carries the list query as the presentation tier collects it.
// NumberFilter stays textual; the service normalizes unparsable input to an
// inactive filter.
type ListParams struct {
	PageSize     int
	PageIndex    int
	SortField    string
	SortOrder    string
	LetterFilter string
	NumberFilter string
}

// List fetches one page of plates.
func (c *Client) List(ctx context.Context, params ListParams) (*dto.PaginatedPlatesResponse, error) {
	q := url.Values{}
	q.Set("pageSize", strconv.Itoa(params.PageSize))
	q.Set("pageIndex", strconv.Itoa(params.PageIndex))
	if params.SortField != "" {
		q.Set("sortField", params.SortField)
		q.Set("sortOrder", params.SortOrder)
	}
	if params.LetterFilter != "" {
		q.Set("letterFilter", params.LetterFilter)
	}
	if params.NumberFilter != "" {
		q.Set("numberFilter", params.NumberFilter)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/v1/plates?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call plate service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var page dto.PaginatedPlatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode plate list: %w", err)
	}

	return &page, nil
}

// Add creates a plate under plateID.
func (c *Client) Add(ctx context.Context, plateID id.ID, payload dto.PlatePayload) (*dto.PlateResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/api/v1/plates/%s", c.baseURL, plateID), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call plate service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, decodeError(resp)
	}

	var created dto.PlateResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("decode created plate: %w", err)
	}

	return &created, nil
}

// Reserve marks a plate as held.
func (c *Client) Reserve(ctx context.Context, plateID id.ID) (*dto.PlateResponse, error) {
	return c.toggle(ctx, plateID, "reserve")
}

// Release clears a plate reservation.
func (c *Client) Release(ctx context.Context, plateID id.ID) (*dto.PlateResponse, error) {
	return c.toggle(ctx, plateID, "release")
}

func (c *Client) toggle(ctx context.Context, plateID id.ID, action string) (*dto.PlateResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/api/v1/plates/%s/%s", c.baseURL, plateID, action), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call plate service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var updated dto.PlateResponse
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		return nil, fmt.Errorf("decode plate: %w", err)
	}

	return &updated, nil
}

// decodeError reconstructs the service's AppError from an error response so
// callers keep the code/status taxonomy across the HTTP hop.
func decodeError(resp *http.Response) error {
	var body struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Code == "" {
		return fmt.Errorf("plate service returned status %d", resp.StatusCode)
	}

	return &apperror.AppError{
		Code:       body.Code,
		Message:    body.Message,
		Details:    body.Details,
		HTTPStatus: resp.StatusCode,
	}
}
