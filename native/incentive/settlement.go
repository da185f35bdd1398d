package incentive

import (
	"fmt"
	"math/big"

	"greenchain/core/events"
)

// ClaimReward settles the fixed per-user payout for a verified participant.
// The vault-to-user transfer runs before any engine record is written: if the
// collaborator fails, the participant, program and history stay untouched. On
// success the claimed flag, the budget decrement and the history entry land
// within the same operation. Returns the claimed amount.
func (e *Engine) ClaimReward(caller [20]byte, programID uint64) (*big.Int, error) {
	if e == nil || e.st == nil {
		return nil, errNilState
	}
	if err := e.guard(); err != nil {
		return nil, err
	}
	program, err := e.loadProgram(programID)
	if err != nil {
		return nil, err
	}
	now := e.nowEpoch()
	if err := e.checkWindow(program, now); err != nil {
		return nil, err
	}
	participant, found, err := e.loadParticipant(programID, caller)
	if err != nil {
		return nil, err
	}
	if !found || !participant.Verified {
		return nil, ErrNotVerified
	}
	if participant.RewardClaimed {
		return nil, ErrAlreadyClaimed
	}
	reward := cloneBigInt(program.RewardPerUser)
	if program.Budget.Cmp(reward) < 0 {
		return nil, ErrInsufficientBudget
	}

	if e.ledger == nil {
		return nil, errNilLedger
	}
	if err := e.ledger.Transfer(e.vault, caller, reward); err != nil {
		return nil, fmt.Errorf("incentive: reward transfer: %w", err)
	}

	participant.RewardClaimed = true
	if err := e.st.KVPut(participantKey(programID, caller), participant); err != nil {
		return nil, err
	}
	program.Budget = new(big.Int).Sub(program.Budget, reward)
	if err := e.storeProgram(program); err != nil {
		return nil, err
	}
	claim := &RewardClaim{Amount: cloneBigInt(reward), ClaimEpoch: now}
	if err := e.st.KVPut(claimKey(programID, caller), claim); err != nil {
		return nil, err
	}
	if err := e.st.KVAppend(claimIndexKey(programID), caller[:]); err != nil {
		return nil, err
	}
	e.emit(events.IncentiveRewardClaimed{
		ProgramID:  programID,
		User:       caller,
		Amount:     cloneBigInt(reward),
		ClaimEpoch: now,
	})
	return reward, nil
}

// Claim retrieves the settlement record for a (program, user) pair.
func (e *Engine) Claim(programID uint64, user [20]byte) (*RewardClaim, bool) {
	rec := new(RewardClaim)
	found, err := e.st.KVGet(claimKey(programID, user), rec)
	if err != nil || !found {
		return nil, false
	}
	return rec.Clone(), true
}

// ClaimHistory lists every settlement recorded for the program, in claim
// order. The entries are immutable audit records.
func (e *Engine) ClaimHistory(programID uint64) ([]ClaimEntry, error) {
	if e == nil || e.st == nil {
		return nil, errNilState
	}
	var raw [][]byte
	if err := e.st.KVGetList(claimIndexKey(programID), &raw); err != nil {
		return nil, err
	}
	entries := make([]ClaimEntry, 0, len(raw))
	for _, b := range raw {
		if len(b) != 20 {
			continue
		}
		var user [20]byte
		copy(user[:], b)
		rec := new(RewardClaim)
		found, err := e.st.KVGet(claimKey(programID, user), rec)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		entries = append(entries, ClaimEntry{User: user, Claim: *rec.Clone()})
	}
	return entries, nil
}
