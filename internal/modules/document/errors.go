package document

import "errors"

var (
	ErrOwnerNotFound   = errors.New("document owner not found")
	ErrRecordNotFound  = errors.New("document not found")
	ErrUnknownSlot     = errors.New("unknown document key for this owner type")
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrInvalidFileType = errors.New("file type is not allowed")
	ErrReasonRequired  = errors.New("rejection reason is required")
	ErrForbidden       = errors.New("access denied")
)
