package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"solo_legend/errors"
)

func TestWrapPreservesCode(t *testing.T) {
	base := errors.MalformedResponse("no json object")
	wrapped := errors.Wrap(base, "process turn")

	assert.Equal(t, errors.CodeMalformedResponse, wrapped.Code)
	assert.True(t, errors.IsMalformedResponse(wrapped))
	assert.Contains(t, wrapped.Error(), "process turn")
}

func TestWrapPlainErrorIsInternal(t *testing.T) {
	wrapped := errors.Wrap(fmt.Errorf("boom"), "load saves")
	assert.Equal(t, errors.CodeInternal, wrapped.Code)
	assert.Nil(t, errors.Wrap(nil, "nothing"))
}

func TestIsCodeWalksChain(t *testing.T) {
	cred := errors.Credential(fmt.Errorf("API key not valid"))
	outer := fmt.Errorf("start adventure: %w", errors.Wrap(cred, "generate"))

	assert.True(t, errors.IsCredential(outer))
	assert.False(t, errors.IsTimeout(outer))
	assert.True(t, stderrors.Is(outer, errors.New(errors.CodeCredential, "")))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, errors.CodeTimeout, errors.GetCode(errors.Timeout("late")))
	assert.Equal(t, errors.CodeInternal, errors.GetCode(fmt.Errorf("plain")))
}
