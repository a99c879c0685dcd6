package utils

/**
 * This file contains utility functions to format the keys for Redis
 * (key, value) pairs. It avoids having to call "fmt.Sprintf(...)"
 * with the same format string every time, potentially confusing the key format.
 */

import "fmt"

// DefaultCourt names the single court this service runs.
const DefaultCourt = "main"

func FormatCourtKey(court string) string {
	return fmt.Sprintf("court:%s:state", court)
}
