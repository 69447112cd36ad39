package messages

// Directory lock messages.
const (
	LockOpenFailedFmt    = "failed to open lock file %s: %w"
	LockAcquireFailedFmt = "failed to lock %s: %w"
	LockHeldFmt          = "another expofast run is already creating %s (lock held for %s)"
	LockReleaseFailedFmt = "failed to release lock %s: %w"
)
