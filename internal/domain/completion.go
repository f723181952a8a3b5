package domain

// CompletionQuery is what the shell completion hook hands to `be tab`.
type CompletionQuery struct {
	// RawCommandLine is the whole line typed so far, e.g. "be in nike sho".
	RawCommandLine string
	// CursorTokenComplete is true when the last token is followed by a separator.
	CursorTokenComplete bool
}
