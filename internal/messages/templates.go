package messages

// Template rendering messages.
const (
	TemplatesReadFailedFmt    = "failed to read template %s: %w"
	TemplatesParseFailedFmt   = "failed to parse template %s: %w"
	TemplatesExecuteFailedFmt = "failed to render template %s: %w"
)
