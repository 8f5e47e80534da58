/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"net/http"
	"time"
)

var sizeUnits = [...]byte{'k', 'M', 'G', 'T', 'P', 'E'}

// humanReadableSize formats bytes with SI prefixes, one decimal place.
func humanReadableSize(bytes int64) string {
	if bytes < 1000 {
		return fmt.Sprintf("%d B", bytes)
	}

	size := float64(bytes) / 1000
	i := 0
	for size >= 1000 && i < len(sizeUnits)-1 {
		size /= 1000
		i++
	}

	return fmt.Sprintf("%.1f %cB", size, sizeUnits[i])
}

func logServed(cfg *Config, what string, written int, r *http.Request, startTime time.Time) {
	logf(cfg, "SERVE: %s (%s) to %s in %s",
		what,
		humanReadableSize(int64(written)),
		realIP(r),
		time.Since(startTime).Round(time.Microsecond),
	)
}
