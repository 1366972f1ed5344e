package gemini

import (
	stderrors "errors"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"

	"solo_legend/errors"
)

// ErrNoAPIKey is returned before any request when no key is configured.
var ErrNoAPIKey = stderrors.New("no API key configured")

var credentialMessages = []string{
	"API key not valid",
	"API_KEY_INVALID",
	"Requested entity was not found",
	"PERMISSION_DENIED",
}

// isCredentialError reports whether the API rejected the request for its key.
func isCredentialError(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, ErrNoAPIKey) {
		return true
	}
	var gerr *googleapi.Error
	if stderrors.As(err, &gerr) {
		if gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden {
			return true
		}
	}
	msg := err.Error()
	for _, m := range credentialMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// classify tags credential failures so the narrator can trigger key selection.
func classify(err error, message string) error {
	if isCredentialError(err) {
		return errors.Credential(err)
	}
	return errors.Wrap(err, message)
}
