package config

import "time"

// Application-wide constants organized by domain

// Pagination
const (
	DefaultPageSize = 10
	MaxPageSize     = 50

	RecentPostsLimit   = 20
	NotificationsLimit = 50
	LeaderboardLimit   = 10
)

// Database and request timeouts
const (
	DefaultQueryTimeout = 30 * time.Second
	SearchTimeout       = 10 * time.Second
	UploadTimeout       = 2 * time.Minute
	ShutdownTimeout     = 10 * time.Second
	NetworkDialTimeout  = 5 * time.Second
)

// Upload size caps per media kind, in bytes
const (
	MaxImageSize    = 10 << 20  // 10 MiB
	MaxAudioSize    = 25 << 20  // 25 MiB
	MaxVideoSize    = 100 << 20 // 100 MiB
	MaxDocumentSize = 20 << 20  // 20 MiB
)

// Rate limiting
const (
	RateLimitRequests = 60
	RateLimitWindow   = time.Minute
)

// Sessions
const (
	SessionTTL       = 24 * time.Hour
	SessionCacheSize = 10_000
)
