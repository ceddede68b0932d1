package lead

import "errors"

var (
	ErrLeadNotFound   = errors.New("lead not found")
	ErrOrgNotFound    = errors.New("organization not found")
	ErrDirectConvert  = errors.New("converted stage is set by the conversion workflow, not directly")
	ErrStageTerminal  = errors.New("lead is in a terminal stage")
	ErrInvalidStage   = errors.New("unknown stage")
	ErrEmptyNote      = errors.New("note text is required")
	ErrUnknownService = errors.New("unknown service in request")
	ErrForbidden      = errors.New("forbidden")
)
