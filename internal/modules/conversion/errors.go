package conversion

import "errors"

var (
	ErrLeadNotFound     = errors.New("lead not found")
	ErrRequestNotFound  = errors.New("conversion request not found")
	ErrAlreadyConverted = errors.New("lead already converted")
	ErrRequestPending   = errors.New("a conversion request is already pending for this lead")
	ErrRequestResolved  = errors.New("conversion request already resolved")
	ErrStudentExists    = errors.New("student already exists")
	ErrReasonRequired   = errors.New("rejection reason is required")
	ErrForbidden        = errors.New("forbidden")
)
