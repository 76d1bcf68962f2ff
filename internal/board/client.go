package board

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Lixing-Zhang/orderboard/internal/models"
)

// Fetcher returns the current boards for queues, in the same order
type Fetcher interface {
	FetchBoards(ctx context.Context, queues []models.Queue) ([]Board, error)
}

// Client reads boards from the orderboard HTTP API
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client for the API at baseURL authenticating with a
// bearer token
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// fetchResult holds the result of fetching a single queue
type fetchResult struct {
	index int
	board Board
	err   error
}

// FetchBoards fetches every queue concurrently. Any failure fails the whole
// fetch so a display never mixes fresh and stale queues.
func (c *Client) FetchBoards(ctx context.Context, queues []models.Queue) ([]Board, error) {
	if len(queues) == 0 {
		return nil, fmt.Errorf("no queues requested")
	}

	resultChan := make(chan fetchResult, len(queues))

	var wg sync.WaitGroup
	for i, q := range queues {
		wg.Add(1)
		go func(index int, queue models.Queue) {
			defer wg.Done()

			b, err := c.Fetch(ctx, queue)
			resultChan <- fetchResult{index: index, board: b, err: err}
		}(i, q)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]fetchResult, len(queues))
	for result := range resultChan {
		results[result.index] = result
	}

	boards := make([]Board, len(queues))
	for i, result := range results {
		if result.err != nil {
			return nil, fmt.Errorf("fetch %s board: %w", queues[i], result.err)
		}
		boards[i] = result.board
	}
	return boards, nil
}

// Fetch reads a single queue's board
func (c *Client) Fetch(ctx context.Context, queue models.Queue) (Board, error) {
	endpoint := c.baseURL + "/api/board?queue=" + url.QueryEscape(string(queue))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Board{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Board{}, fmt.Errorf("request board: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		if body.Error != "" {
			return Board{}, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, body.Error)
		}
		return Board{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var b Board
	if err := json.NewDecoder(resp.Body).Decode(&b); err != nil {
		return Board{}, fmt.Errorf("decode board: %w", err)
	}
	return b, nil
}
