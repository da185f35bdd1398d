package incentive

import (
	"errors"

	nativecommon "greenchain/native/common"
)

var (
	ErrUnauthorized       = errors.New("incentive: unauthorized")
	ErrProgramNotFound    = errors.New("incentive: program not found")
	ErrProgramNotStarted  = errors.New("incentive: program not started")
	ErrProgramExpired     = errors.New("incentive: program expired")
	ErrAlreadyJoined      = errors.New("incentive: already joined")
	ErrAlreadySubmitted   = errors.New("incentive: proof already submitted")
	ErrAlreadyVerified    = errors.New("incentive: proof already verified")
	ErrProofNotFound      = errors.New("incentive: proof not found")
	ErrNotVerified        = errors.New("incentive: participant not verified")
	ErrAlreadyClaimed     = errors.New("incentive: reward already claimed")
	ErrInvalidProof       = errors.New("incentive: proof rejected by verifier")
	ErrInsufficientBudget = errors.New("incentive: insufficient program budget")
	ErrInvalidAmount      = errors.New("incentive: invalid amount")
	ErrInvalidParam       = errors.New("incentive: invalid parameter")

	// ErrPaused and ErrNotAdmin alias the shared gate sentinels so callers
	// can match the module taxonomy without importing native/common.
	ErrPaused   = nativecommon.ErrModulePaused
	ErrNotAdmin = nativecommon.ErrNotPauseAuthority
)
