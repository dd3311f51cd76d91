// Package cache is the client-side resource cache every dashboard view reads
// through.
//
// A Store keeps one entry per query Key. An entry holds the last payload the
// server returned, the tags that payload provides, its subscribers and at most
// one in-flight request. Views Subscribe to a Query and are called back on
// every change; one-shot callers use Get. Mutations patch entries
// optimistically with ApplyPatch and undo them with Rollback, or invalidate
// tags so the affected entries are fetched again.
//
// Entries without subscribers are kept for a retention window (five minutes by
// default) and removed by Sweep, which Run calls periodically.
package cache
