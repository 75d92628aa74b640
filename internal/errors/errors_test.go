package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	err := Wrap(NoDataset(), "report failed")
	assert.Equal(t, CodeNoDataset, GetCode(err))
	assert.Equal(t, "report failed", UserMessage(err))

	plain := Wrap(stderrors.New("boom"), "failed")
	assert.Equal(t, CodeInternalError, GetCode(plain))
	assert.Equal(t, "failed: boom", plain.Error())

	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Nil(t, Wrapf(nil, "nothing %d", 1))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeConfigInvalid, stderrors.New("bad"))
	var appErr *AppError
	assert.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, "bad", appErr.Message)
	assert.Equal(t, CodeConfigInvalid, GetCode(err))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}

func TestUserMessage(t *testing.T) {
	parse := ParseError("malformed CSV", stderrors.New("bare \" in non-quoted field"))
	assert.Equal(t, "malformed CSV: bare \" in non-quoted field", UserMessage(parse))
	assert.Equal(t, "No columns to parse from file", UserMessage(ParseError("No columns to parse from file", nil)))
	assert.Equal(t, "file exceeds the 200 MB upload limit", UserMessage(UploadTooLarge(200<<20)))
	assert.Equal(t, "plain", UserMessage(stderrors.New("plain")))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(ParseError("x", nil)))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(InvalidInput("x")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, HTTPStatus(UploadTooLarge(1<<20)))
	assert.Equal(t, http.StatusConflict, HTTPStatus(NoDataset()))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(stderrors.New("x")))
}
