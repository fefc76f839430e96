package domain

import "errors"

var (
	// ErrValidation is returned when a scan is submitted without the inputs it needs
	ErrValidation = errors.New("validation failed")

	// ErrEmptyQuery is returned when the query is blank after trimming
	ErrEmptyQuery = errors.New("query is empty")

	// ErrMissingImage is returned when no shelf image has been captured
	ErrMissingImage = errors.New("no image captured")

	// ErrUnsupportedImage is returned when the captured bytes are not an image
	ErrUnsupportedImage = errors.New("unsupported image type")

	// ErrEmptyResponse is returned when the analysis service returns no text
	ErrEmptyResponse = errors.New("empty response from analysis service")

	// ErrMalformedResponse is returned when the response text cannot be parsed as a recommendation
	ErrMalformedResponse = errors.New("malformed response from analysis service")

	// ErrTransportFailure is returned when the analysis service cannot be reached or rejects the request
	ErrTransportFailure = errors.New("analysis service request failed")

	// ErrStorageRead is returned when persisted state is corrupt or unavailable
	ErrStorageRead = errors.New("stored state unreadable")

	// ErrNotFound is returned when a key or history entry does not exist
	ErrNotFound = errors.New("not found")

	// ErrAnalysisInProgress is returned when a scan is submitted while another is running
	ErrAnalysisInProgress = errors.New("analysis already in progress")

	// ErrInvalidTransition is returned when an action is not allowed in the current state
	ErrInvalidTransition = errors.New("action not allowed in current state")

	// ErrStaleSession is returned when a result arrives for a session that was reset
	ErrStaleSession = errors.New("result discarded for stale session")

	// ErrUnknownMatchType is returned for match types outside the closed set
	ErrUnknownMatchType = errors.New("unknown match type")

	// ErrUnknownTheme is returned for theme ids outside the closed set
	ErrUnknownTheme = errors.New("unknown theme")

	// ErrInvalidIndex is returned when a sub-entity index does not address an item
	ErrInvalidIndex = errors.New("invalid item index")
)

// Messages shown to the user. Remote failures share one message since the only
// recovery is to try again.
const (
	MessageEmptyQuery     = "Please describe what you are looking for."
	MessageMissingImage   = "We need a photo of the shelf first."
	MessageUnsupported    = "That file doesn't look like a photo. Please capture the shelf again."
	MessageAnalysisFailed = "Could not analyze the image. Please ensure the shelf is well-lit and try again."
)

// IsRemoteFailure reports whether err belongs to the remote-call family
func IsRemoteFailure(err error) bool {
	return errors.Is(err, ErrEmptyResponse) ||
		errors.Is(err, ErrMalformedResponse) ||
		errors.Is(err, ErrTransportFailure)
}

// UserMessage maps an error to the message the presentation layer shows
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyQuery):
		return MessageEmptyQuery
	case errors.Is(err, ErrMissingImage):
		return MessageMissingImage
	case errors.Is(err, ErrUnsupportedImage):
		return MessageUnsupported
	default:
		return MessageAnalysisFailed
	}
}
