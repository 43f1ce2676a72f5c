package services

import (
	"errors"

	"github.com/dmitrijs2005/chewallet/internal/client/client"
	"github.com/dmitrijs2005/chewallet/internal/common"
)

var (
	ErrSubmissionInProgress = errors.New("a submission is already in progress")
	ErrLoadInProgress       = errors.New("a page is already loading")
	ErrNoPrevPage           = errors.New("already on the first page")
	ErrNoNextPage           = errors.New("already on the last page")
	ErrInvalidPage          = errors.New("page numbers start at 1")
)

// asValidation converts a rejected form submission into a ValidationError.
// The backend's details object is used verbatim; without one the whole
// message goes under the "error" key. Transport failures pass through.
func asValidation(op string, err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		if fields, ok := apiErr.FieldErrors(); ok && len(fields) > 0 {
			return &common.ValidationError{Fields: fields}
		}
		return common.NewValidationError("error", apiErr.Message())
	}
	return asTransport(op, err)
}

// asPartial converts a non-2xx response into a PartialDataError carrying
// the extracted message. Transport failures pass through.
func asPartial(op string, err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return &common.PartialDataError{StatusCode: apiErr.StatusCode, Message: apiErr.Message()}
	}
	return asTransport(op, err)
}

func asTransport(op string, err error) error {
	var te *common.TransportError
	if errors.As(err, &te) {
		return err
	}
	return &common.TransportError{Op: op, Err: err}
}
