package driven

// ErrorReporter receives messages from the loader. Loads never return
// errors to their caller; everything surfaces here.
type ErrorReporter interface {
	// PartialReport notes progress worth showing transiently.
	PartialReport(msg string)

	// MessageReport notes an informational message.
	MessageReport(msg string)

	// WarningReport notes a recoverable problem.
	WarningReport(msg string, err error)

	// ErrorReport notes an unexpected failure.
	ErrorReport(msg string, err error)

	// FatalErrorReport notes a failure the caller cannot recover from.
	FatalErrorReport(msg string, err error)
}

// ProgressListener is told when a transport download starts and ends.
type ProgressListener interface {
	DownloadStarted(url string)
	DownloadEnded(url string, err error)
}
