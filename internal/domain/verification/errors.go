package verification

import "errors"

var (
	ErrTitleRequired      = errors.New("cycle title is required")
	ErrActorRequired      = errors.New("actor is required")
	ErrCycleAlreadyActive = errors.New("a verification cycle is already active")
	ErrCycleAlreadyClosed = errors.New("verification cycle is already closed")
	ErrCycleNotActive     = errors.New("verification cycle is not active")
	ErrEmployeeRequired   = errors.New("employee id is required")
	ErrAssetRequired      = errors.New("asset id is required")
	ErrEnteredRequired    = errors.New("entered asset id is required")
	ErrAssetNotAssigned   = errors.New("asset is not assigned to employee")
	ErrUnknownStatus      = errors.New("unknown verification status")
	ErrUnknownCycleStatus = errors.New("unknown cycle status")
)
