package advice

// Kind classifies a failed submission.
type Kind string

const (
	// InputError means the submission was rejected before any external call.
	InputError Kind = "input"

	// ExternalServiceError covers image fetch/decode and completion failures.
	ExternalServiceError Kind = "external_service"
)

// User-facing messages. Causes are logged, never shown.
const (
	MsgEmptyText        = "Please enter some symptoms or health concerns."
	MsgImageUnavailable = "The image could not be processed. Please try another image or submit without one."
	MsgServiceFailed    = "An error occurred while getting advice. Please try again later."
)

// Error is a tagged failure returned in a Result.
type Error struct {
	Kind    Kind
	Message string

	// Cause is the underlying error, kept for logging.
	Cause error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Result is either advice text or an Error.
type Result struct {
	Advice string
	Err    *Error
}

// OK reports whether the result carries advice.
func (r Result) OK() bool {
	return r.Err == nil
}

func success(advice string) Result {
	return Result{Advice: advice}
}

func failure(kind Kind, message string, cause error) Result {
	return Result{Err: &Error{Kind: kind, Message: message, Cause: cause}}
}
