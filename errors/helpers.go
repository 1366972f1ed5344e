package errors

// MalformedResponse creates a CodeMalformedResponse error.
func MalformedResponse(message string) *Error { return New(CodeMalformedResponse, message) }

// MalformedResponsef creates a CodeMalformedResponse error with a formatted message.
func MalformedResponsef(format string, args ...any) *Error {
	return Newf(CodeMalformedResponse, format, args...)
}

// Timeout creates a CodeTimeout error.
func Timeout(message string) *Error { return New(CodeTimeout, message) }

// Credential wraps a collaborator rejection of the API key.
func Credential(cause error) *Error {
	return WrapWithCode(cause, CodeCredential, "collaborator rejected credentials")
}

// GenerationFailure creates a CodeGenerationFailure error.
func GenerationFailure(message string) *Error { return New(CodeGenerationFailure, message) }

// FailedPrecondition creates a CodeFailedPrecondition error.
func FailedPrecondition(message string) *Error { return New(CodeFailedPrecondition, message) }

// FailedPreconditionf creates a CodeFailedPrecondition error with a formatted message.
func FailedPreconditionf(format string, args ...any) *Error {
	return Newf(CodeFailedPrecondition, format, args...)
}

// InvalidArgument creates a CodeInvalidArgument error.
func InvalidArgument(message string) *Error { return New(CodeInvalidArgument, message) }

// InvalidArgumentf creates a CodeInvalidArgument error with a formatted message.
func InvalidArgumentf(format string, args ...any) *Error {
	return Newf(CodeInvalidArgument, format, args...)
}

// NotFoundf creates a CodeNotFound error with a formatted message.
func NotFoundf(format string, args ...any) *Error { return Newf(CodeNotFound, format, args...) }

// Internalf creates a CodeInternal error with a formatted message.
func Internalf(format string, args ...any) *Error { return Newf(CodeInternal, format, args...) }

// IsMalformedResponse reports whether err carries CodeMalformedResponse.
func IsMalformedResponse(err error) bool { return IsCode(err, CodeMalformedResponse) }

// IsTimeout reports whether err carries CodeTimeout.
func IsTimeout(err error) bool { return IsCode(err, CodeTimeout) }

// IsCredential reports whether err carries CodeCredential.
func IsCredential(err error) bool { return IsCode(err, CodeCredential) }

// IsFailedPrecondition reports whether err carries CodeFailedPrecondition.
func IsFailedPrecondition(err error) bool { return IsCode(err, CodeFailedPrecondition) }

// IsInvalidArgument reports whether err carries CodeInvalidArgument.
func IsInvalidArgument(err error) bool { return IsCode(err, CodeInvalidArgument) }

// IsNotFound reports whether err carries CodeNotFound.
func IsNotFound(err error) bool { return IsCode(err, CodeNotFound) }
