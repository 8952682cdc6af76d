// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cache keeps rendered analytics responses for a short while.

The voter roll is loaded once by batch import and never changes while the
server runs, so the aggregate endpoints (analytics, demographics,
village-analytics) can reuse an earlier answer for the same query string.

	var c cache.Cache = cache.Noop{}
	if cfg.RedisAddr != "" {
		c = cache.NewRedis(client, cfg.CacheTTL)
	}

Cache failures are logged and treated as misses.
*/
package cache
