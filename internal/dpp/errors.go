package dpp

import "errors"

// Sentinel errors crossing the Backend boundary.
var (
	// ErrQuizNotFound reports that the quiz id does not resolve.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuizMalformed reports that the stored quiz document failed shape
	// validation on read and must not be trusted.
	ErrQuizMalformed = errors.New("quiz document is malformed")
	// ErrSubmissionNotFound reports that the submission id does not resolve.
	ErrSubmissionNotFound = errors.New("submission not found")
)

// Session operation errors.
var (
	// ErrPartialSubmission is returned by Submit when unanswered questions
	// remain and the caller has not confirmed. It is a confirmation gate,
	// not a failure: resubmitting with confirmation proceeds normally.
	ErrPartialSubmission = errors.New("unanswered questions remain")
	// ErrInvalidState is returned when an operation is called outside the
	// state that permits it.
	ErrInvalidState = errors.New("operation not permitted in current state")
	// ErrIndexOutOfRange is returned for a question or option index outside
	// the quiz's bounds.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// ValidationError names the first unmet completeness condition of a quiz
// draft. It is surfaced to the author as a plain message; the draft is
// retained for correction.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
