package incentive

import "math/big"

// Program is the on-chain configuration and accounting record for a
// time-bounded incentive campaign. Budget tracks the remaining claimable
// units: it only grows through an admin top-up and only shrinks through
// settlement. RewardPerUser and CommitmentType are fixed at creation.
type Program struct {
	ID                uint64
	Name              string
	Description       string
	Admin             [20]byte
	Budget            *big.Int
	RewardPerUser     *big.Int
	StartEpoch        uint64
	EndEpoch          uint64
	Active            bool
	VerifiedCount     uint64
	TotalParticipants uint64
	Tags              []string
	CommitmentType    string
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (p *Program) Clone() *Program {
	if p == nil {
		return nil
	}
	out := *p
	out.Budget = cloneBigInt(p.Budget)
	out.RewardPerUser = cloneBigInt(p.RewardPerUser)
	out.Tags = append([]string(nil), p.Tags...)
	return &out
}

// RemainingClaims derives how many full payouts the current budget still
// covers.
func (p *Program) RemainingClaims() uint64 {
	if p == nil || p.Budget == nil || p.RewardPerUser == nil || p.RewardPerUser.Sign() <= 0 {
		return 0
	}
	n := new(big.Int).Quo(p.Budget, p.RewardPerUser)
	if !n.IsUint64() {
		return ^uint64(0)
	}
	return n.Uint64()
}

// Participant is the enrollment record for one (program, user) pair. The
// commitment is immutable after join; the flags advance strictly in the order
// joined -> proof submitted -> verified -> claimed.
type Participant struct {
	Commitment        []byte
	JoinEpoch         uint64
	ProofSubmitted    bool
	Verified          bool
	VerificationEpoch uint64
	RewardClaimed     bool
}

// Clone returns a deep copy of the participant record.
func (p *Participant) Clone() *Participant {
	if p == nil {
		return nil
	}
	out := *p
	out.Commitment = append([]byte(nil), p.Commitment...)
	return &out
}

// Proof holds the evidence a participant submitted and, once the oracle has
// ruled, the definitive outcome. Reviewed flips exactly once.
type Proof struct {
	Payload           []byte
	SubmissionEpoch   uint64
	Notes             string
	Reviewed          bool
	Verified          bool
	VerificationNotes string
}

// Clone returns a deep copy of the proof record.
func (p *Proof) Clone() *Proof {
	if p == nil {
		return nil
	}
	out := *p
	out.Payload = append([]byte(nil), p.Payload...)
	return &out
}

// RewardClaim is the immutable audit record written at settlement.
type RewardClaim struct {
	Amount     *big.Int
	ClaimEpoch uint64
}

// Clone returns a deep copy of the claim record.
func (c *RewardClaim) Clone() *RewardClaim {
	if c == nil {
		return nil
	}
	out := *c
	out.Amount = cloneBigInt(c.Amount)
	return &out
}

// ClaimEntry pairs a claim record with the claiming user for history listings.
type ClaimEntry struct {
	User  [20]byte
	Claim RewardClaim
}

func cloneBigInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}
