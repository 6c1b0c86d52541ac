package errors

import "errors"

// Sentinel errors shared by the service and transport layers. Environmental
// failures (router or feature service degradation) never surface through these;
// they are reserved for caller defects.
var (
	ErrUnknown         = errors.New("unknown error")
	ErrInvalidArgument = errors.New("invalid argument")
)
