// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package openlibrary is the outbound client for the OpenLibrary catalogue.

Every call goes through the same pipeline:

	rate limiter -> circuit breaker -> HTTP GET -> JSON decode

wrapped in an exponential backoff retry. Transient failures (network errors,
429, 5xx) are retried up to the configured budget. A 404 is returned as
[ErrNotFound] immediately and does not count against the breaker.
*/
package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

var (
	// ErrNotFound is returned when OpenLibrary answers 404 for a key.
	ErrNotFound = errors.New("openlibrary: not found")

	// ErrUnavailable is returned while the circuit breaker is open.
	ErrUnavailable = errors.New("openlibrary: temporarily unavailable")
)

// StatusError reports a non-2xx answer that is not a 404.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("openlibrary: unexpected status %d for %s", e.StatusCode, e.URL)
}

// transient reports whether a retry may succeed.
func (e *StatusError) transient() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Config tunes the client. Zero values fall back to sensible defaults.
type Config struct {
	BaseURL           string
	CoversURL         string
	UserAgent         string
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerSecond float64

	// RetryInterval is the first backoff step. Tests shrink it.
	RetryInterval time.Duration
}

// Client talks to openlibrary.org.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	coversURL     string
	userAgent     string
	maxRetries    int
	retryInterval time.Duration
	limiter       *rate.Limiter
	breaker       *gobreaker.CircuitBreaker
	tracer        trace.Tracer
	logger        *slog.Logger
}

// NewClient builds a Client from cfg.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openlibrary.org"
	}
	if cfg.CoversURL == "" {
		cfg.CoversURL = "https://covers.openlibrary.org"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 500 * time.Millisecond
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	client := &Client{
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		coversURL:     strings.TrimRight(cfg.CoversURL, "/"),
		userAgent:     cfg.UserAgent,
		maxRetries:    cfg.MaxRetries,
		retryInterval: cfg.RetryInterval,
		limiter:       rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		tracer:        otel.Tracer("blablabook/openlibrary"),
		logger:        logger,
	}

	client.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openlibrary",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit_breaker_state_changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	return client
}

// # Catalogue Calls

// GetWork fetches works/{key}.json. key may be given in any form accepted by [WorkKey].
func (client *Client) GetWork(ctx context.Context, key string) (*Work, error) {
	workKey, ok := WorkKey(key)
	if !ok {
		return nil, fmt.Errorf("openlibrary: invalid work key %q", key)
	}

	ctx, span := client.tracer.Start(ctx, "openlibrary.GetWork", trace.WithAttributes(attribute.String("openlibrary.key", workKey)))
	defer span.End()

	var work Work
	if err := client.get(ctx, client.baseURL+workKey+".json", &work); err != nil {
		recordError(span, err)
		return nil, err
	}
	return &work, nil
}

// GetAuthor fetches authors/{key}.json.
func (client *Client) GetAuthor(ctx context.Context, key string) (*Author, error) {
	authorKey := AuthorKey(key)

	ctx, span := client.tracer.Start(ctx, "openlibrary.GetAuthor", trace.WithAttributes(attribute.String("openlibrary.key", authorKey)))
	defer span.End()

	var author Author
	if err := client.get(ctx, client.baseURL+authorKey+".json", &author); err != nil {
		recordError(span, err)
		return nil, err
	}
	return &author, nil
}

// SearchWorks queries search.json for free text.
func (client *Client) SearchWorks(ctx context.Context, query string, limit int) (*SearchResult, error) {
	ctx, span := client.tracer.Start(ctx, "openlibrary.SearchWorks", trace.WithAttributes(attribute.String("openlibrary.query", query)))
	defer span.End()

	params := url.Values{}
	params.Set("q", query)
	params.Set("fields", "key,title,author_name,author_key,first_publish_year,cover_i")
	params.Set("limit", strconv.Itoa(limit))

	var result SearchResult
	if err := client.get(ctx, client.baseURL+"/search.json?"+params.Encode(), &result); err != nil {
		recordError(span, err)
		return nil, err
	}
	return &result, nil
}

// CoverURL builds the large cover image URL for a cover id.
func (client *Client) CoverURL(coverID int) string {
	return fmt.Sprintf("%s/b/id/%d-L.jpg", client.coversURL, coverID)
}

// AuthorPhotoURL builds the medium portrait URL for an author photo id.
func (client *Client) AuthorPhotoURL(photoID int) string {
	return fmt.Sprintf("%s/a/id/%d-M.jpg", client.coversURL, photoID)
}

// # Transport

// get performs a resilient GET and decodes the JSON body into target.
func (client *Client) get(ctx context.Context, rawURL string, target any) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = client.retryInterval
	policy.MaxInterval = 8 * client.retryInterval

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		if err := client.limiter.Wait(ctx); err != nil {
			return struct{}{}, backoff.Permanent(err)
		}

		_, err := client.breaker.Execute(func() (any, error) {
			return nil, client.fetch(ctx, rawURL, target)
		})

		switch {
		case err == nil:
			return struct{}{}, nil
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return struct{}{}, backoff.Permanent(fmt.Errorf("%w: %w", ErrUnavailable, err))
		case errors.Is(err, ErrNotFound):
			return struct{}{}, backoff.Permanent(err)
		}

		var statusError *StatusError
		if errors.As(err, &statusError) && !statusError.transient() {
			return struct{}{}, backoff.Permanent(err)
		}

		client.logger.Debug("openlibrary_request_retry", slog.String("url", rawURL), slog.Any("error", err))
		return struct{}{}, err
	},
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(client.maxRetries)+1),
	)
	return err
}

// fetch performs a single HTTP round-trip.
func (client *Client) fetch(ctx context.Context, rawURL string, target any) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	request.Header.Set("Accept", "application/json")
	if client.userAgent != "" {
		request.Header.Set("User-Agent", client.userAgent)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("openlibrary: request failed: %w", err)
	}
	defer response.Body.Close()

	switch {
	case response.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case response.StatusCode != http.StatusOK:
		return &StatusError{StatusCode: response.StatusCode, URL: rawURL}
	}

	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		return fmt.Errorf("openlibrary: decode %s: %w", rawURL, err)
	}
	return nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
