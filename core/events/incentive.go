package events

import "math/big"

const (
	// TypeIncentiveProgramCreated is emitted when an incentive program is
	// first registered.
	TypeIncentiveProgramCreated = "incentive.program.created"
	// TypeIncentiveBudgetRaised is emitted when a program admin tops up the
	// claimable budget.
	TypeIncentiveBudgetRaised = "incentive.program.budget_raised"
	// TypeIncentiveProgramDeactivated is emitted when a program is retired.
	TypeIncentiveProgramDeactivated = "incentive.program.deactivated"
	// TypeIncentiveParticipantJoined is emitted when a user enrolls into a
	// program with a commitment.
	TypeIncentiveParticipantJoined = "incentive.participant.joined"
	// TypeIncentiveProofSubmitted is emitted when a participant files
	// evidence for their commitment.
	TypeIncentiveProofSubmitted = "incentive.proof.submitted"
	// TypeIncentiveProofVerified is emitted when the oracle accepts a proof.
	TypeIncentiveProofVerified = "incentive.proof.verified"
	// TypeIncentiveProofRejected is emitted when the oracle records a
	// negative outcome.
	TypeIncentiveProofRejected = "incentive.proof.rejected"
	// TypeIncentiveRewardClaimed is emitted when a verified participant
	// settles their reward.
	TypeIncentiveRewardClaimed = "incentive.reward.claimed"
	// TypeIncentivePaused and TypeIncentiveResumed track the global halt
	// switch.
	TypeIncentivePaused  = "incentive.engine.paused"
	TypeIncentiveResumed = "incentive.engine.resumed"
)

// IncentiveProgramCreated captures the key metadata of a newly created
// program.
type IncentiveProgramCreated struct {
	ID             uint64
	Admin          [20]byte
	Budget         *big.Int
	RewardPerUser  *big.Int
	StartEpoch     uint64
	EndEpoch       uint64
	CommitmentType string
}

// EventType implements the Event interface.
func (IncentiveProgramCreated) EventType() string { return TypeIncentiveProgramCreated }

// IncentiveBudgetRaised captures a budget increase on an existing program.
type IncentiveBudgetRaised struct {
	ID        uint64
	Admin     [20]byte
	OldBudget *big.Int
	NewBudget *big.Int
}

// EventType implements the Event interface.
func (IncentiveBudgetRaised) EventType() string { return TypeIncentiveBudgetRaised }

// IncentiveProgramDeactivated captures the terminal retirement of a program.
type IncentiveProgramDeactivated struct {
	ID     uint64
	Caller [20]byte
}

// EventType implements the Event interface.
func (IncentiveProgramDeactivated) EventType() string { return TypeIncentiveProgramDeactivated }

// IncentiveParticipantJoined captures a new enrollment.
type IncentiveParticipantJoined struct {
	ProgramID uint64
	User      [20]byte
	JoinEpoch uint64
}

// EventType implements the Event interface.
func (IncentiveParticipantJoined) EventType() string { return TypeIncentiveParticipantJoined }

// IncentiveProofSubmitted captures a proof filing.
type IncentiveProofSubmitted struct {
	ProgramID       uint64
	User            [20]byte
	SubmissionEpoch uint64
}

// EventType implements the Event interface.
func (IncentiveProofSubmitted) EventType() string { return TypeIncentiveProofSubmitted }

// IncentiveProofVerified captures a positive oracle outcome.
type IncentiveProofVerified struct {
	ProgramID         uint64
	User              [20]byte
	Verifier          [20]byte
	VerificationEpoch uint64
}

// EventType implements the Event interface.
func (IncentiveProofVerified) EventType() string { return TypeIncentiveProofVerified }

// IncentiveProofRejected captures a negative oracle outcome.
type IncentiveProofRejected struct {
	ProgramID uint64
	User      [20]byte
	Verifier  [20]byte
	Notes     string
}

// EventType implements the Event interface.
func (IncentiveProofRejected) EventType() string { return TypeIncentiveProofRejected }

// IncentiveRewardClaimed captures a settled reward payout.
type IncentiveRewardClaimed struct {
	ProgramID  uint64
	User       [20]byte
	Amount     *big.Int
	ClaimEpoch uint64
}

// EventType implements the Event interface.
func (IncentiveRewardClaimed) EventType() string { return TypeIncentiveRewardClaimed }

// IncentivePaused captures activation of the global halt switch.
type IncentivePaused struct {
	Caller [20]byte
}

// EventType implements the Event interface.
func (IncentivePaused) EventType() string { return TypeIncentivePaused }

// IncentiveResumed captures release of the global halt switch.
type IncentiveResumed struct {
	Caller [20]byte
}

// EventType implements the Event interface.
func (IncentiveResumed) EventType() string { return TypeIncentiveResumed }
