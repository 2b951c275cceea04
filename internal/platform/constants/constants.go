// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: JWT issuer and token lifetimes.
  - Import Engine: genre cap, sweep defaults and guard key prefixes.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "blablabook-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	// Lazy imports call OpenLibrary inside the request, so this is more generous than a
	// pure CRUD service would need.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 25 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// PublicDomain is the production web domain; its subdomains pass CORS.
	PublicDomain = "blablabook.app"

	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "blablabook.app"

	// AccessTokenTTL is the lifetime of an access token issued at login.
	AccessTokenTTL = 24 * time.Hour
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderOrigin        = "Origin"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderAuthorization = "Authorization"
)

// # Import Engine

const (
	// MaxGenresPerBook caps how many genres a single import may attach.
	MaxGenresPerBook = 15

	// DefaultSweepMaxAgeMinutes is the age after which an unconfirmed import is reclaimed.
	DefaultSweepMaxAgeMinutes = 60

	// DefaultImportPollInterval is the wait between two lock attempts on a busy key.
	DefaultImportPollInterval = 50 * time.Millisecond

	// AuthorEnrichmentTimeout bounds the detached author portrait lookup.
	AuthorEnrichmentTimeout = 15 * time.Second

	// UntitledBook is stored when OpenLibrary returns a work without a title.
	UntitledBook = "Untitled"

	// UnknownAuthor names an author row until enrichment fetches the real name.
	UnknownAuthor = "Unknown author"

	// ExternalSearchLimit caps OpenLibrary search results per request.
	ExternalSearchLimit = 20
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixImportLock = "import:lock:"
)
