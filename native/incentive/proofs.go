package incentive

import (
	"fmt"

	"greenchain/core/events"
)

// SubmitProof records the caller's evidence for a program they joined. One
// proof per participant: a second submission fails regardless of the first
// one's verification outcome.
func (e *Engine) SubmitProof(caller [20]byte, programID uint64, payload []byte, notes string) error {
	if e == nil || e.st == nil {
		return errNilState
	}
	if err := e.guard(); err != nil {
		return err
	}
	program, err := e.loadProgram(programID)
	if err != nil {
		return err
	}
	now := e.nowEpoch()
	if err := e.checkWindow(program, now); err != nil {
		return err
	}
	if len(payload) == 0 || len(payload) > MaxProofBytes {
		return fmt.Errorf("%w: proof must be 1-%d bytes", ErrInvalidParam, MaxProofBytes)
	}
	if len(notes) > MaxNotesBytes {
		return fmt.Errorf("%w: notes exceed %d bytes", ErrInvalidParam, MaxNotesBytes)
	}
	participant, found, err := e.loadParticipant(programID, caller)
	if err != nil {
		return err
	}
	if !found {
		return ErrUnauthorized
	}
	if participant.ProofSubmitted {
		return ErrAlreadySubmitted
	}

	proof := &Proof{
		Payload:         append([]byte(nil), payload...),
		SubmissionEpoch: now,
		Notes:           notes,
	}
	if err := e.st.KVPut(proofKey(programID, caller), proof); err != nil {
		return err
	}
	participant.ProofSubmitted = true
	if err := e.st.KVPut(participantKey(programID, caller), participant); err != nil {
		return err
	}
	e.emit(events.IncentiveProofSubmitted{ProgramID: programID, User: caller, SubmissionEpoch: now})
	return nil
}

// VerifyProof records the oracle's definitive ruling on a submitted proof.
// Only a caller holding the verifier role may invoke it, and the ruling is
// single-shot: once reviewed, any further call fails with ErrAlreadyVerified
// regardless of the new outcome.
//
// A positive ruling marks the participant verified and bumps the program's
// verified counter. A negative ruling records the outcome and notes but flips
// no participant flag, and is reported as ErrInvalidProof so callers branch
// on it the same way they branch on any other rejection.
func (e *Engine) VerifyProof(caller [20]byte, programID uint64, user [20]byte, isValid bool, notes string) error {
	if e == nil || e.st == nil {
		return errNilState
	}
	if err := e.guard(); err != nil {
		return err
	}
	if !e.st.HasRole(RoleProofVerifier, caller[:]) {
		return ErrUnauthorized
	}
	if len(notes) > MaxNotesBytes {
		return fmt.Errorf("%w: notes exceed %d bytes", ErrInvalidParam, MaxNotesBytes)
	}
	program, err := e.loadProgram(programID)
	if err != nil {
		return err
	}
	proof, found, err := e.loadProof(programID, user)
	if err != nil {
		return err
	}
	if !found {
		return ErrProofNotFound
	}
	if proof.Reviewed {
		return ErrAlreadyVerified
	}

	now := e.nowEpoch()
	proof.Reviewed = true
	proof.Verified = isValid
	proof.VerificationNotes = notes
	if err := e.st.KVPut(proofKey(programID, user), proof); err != nil {
		return err
	}
	if !isValid {
		e.emit(events.IncentiveProofRejected{ProgramID: programID, User: user, Verifier: caller, Notes: notes})
		return ErrInvalidProof
	}

	participant, found, err := e.loadParticipant(programID, user)
	if err != nil {
		return err
	}
	if !found {
		// A proof without its participant record cannot occur through the
		// public operations; surface it as a state error.
		return fmt.Errorf("incentive: participant record missing for verified proof")
	}
	participant.Verified = true
	participant.VerificationEpoch = now
	if err := e.st.KVPut(participantKey(programID, user), participant); err != nil {
		return err
	}
	program.VerifiedCount++
	if err := e.storeProgram(program); err != nil {
		return err
	}
	e.emit(events.IncentiveProofVerified{ProgramID: programID, User: user, Verifier: caller, VerificationEpoch: now})
	return nil
}

// Proof retrieves the proof record for a (program, user) pair.
func (e *Engine) Proof(programID uint64, user [20]byte) (*Proof, bool) {
	proof, found, err := e.loadProof(programID, user)
	if err != nil || !found {
		return nil, false
	}
	return proof.Clone(), true
}
