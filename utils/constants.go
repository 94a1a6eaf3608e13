package utils

import "time"

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// RevokedTokenPrefix marks tokens invalidated by logout.
const RevokedTokenPrefix = "revoked:"

// VerificationCodePrefix is the prefix of e-mail verification code keys.
const VerificationCodePrefix = "verify:"

// AuthCacheTTL is the time-to-live for authorization cache entries.
const AuthCacheTTL = 10 * time.Minute
