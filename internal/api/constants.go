package api

// Cache-Control header values.
const (
	CachePrivateHour = "private, max-age=3600"
	CacheNoStore     = "no-store"
)
