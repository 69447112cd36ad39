package messages

// File composition messages.
const (
	ComposeFailedReadFmt      = "failed to read %s: %w"
	ComposeFailedWriteFmt     = "failed to write %s: %w"
	ComposeFailedStatFmt      = "failed to stat %s: %w"
	ComposeFailedRemoveFmt    = "failed to remove %s: %w"
	ComposeFailedCreateDirFmt = "failed to create directory %s: %w"
	ComposeInvalidJSONFmt     = "%s is not valid JSON"
	ComposeMutateFailedFmt    = "failed to update %s: %w"
	ComposeSetFailedFmt       = "set %s: %w"
	ComposeNotArrayFmt        = "%s is not an array"
	ComposeMarkerRequired     = "merge marker is required"
	ComposeWroteLog           = "wrote file"
	ComposeMergedLog          = "merged file"
	ComposeSkippedMissingLog  = "merge target missing; skipped"
	ComposeSkippedMarkerLog   = "merge marker present; skipped"
	ComposeUnchangedLog       = "merge produced no changes"
	ComposeRemovedLog         = "removed file"
)
