// Package cache provides RangeCache, an in-process memo of complete
// generation results keyed by index range. Entries expire after a period
// of inactivity; reading an entry keeps it alive.
package cache
