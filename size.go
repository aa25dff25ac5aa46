/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import "fmt"

// humanReadableSize formats a byte count with SI prefixes.
func humanReadableSize(bytes int64) string {
	if bytes < 1000 {
		return fmt.Sprintf("%d B", bytes)
	}

	size := float64(bytes)
	for _, prefix := range "kMGTPE" {
		size /= 1000
		if size < 1000 || prefix == 'E' {
			return fmt.Sprintf("%.1f %cB", size, prefix)
		}
	}

	return ""
}
