package incentive

import (
	"fmt"

	"greenchain/core/events"
)

// Join enrolls the caller into a program with an opaque commitment blob. The
// participant record and the program's participant counter are written within
// the same operation, so no caller can observe one without the other.
func (e *Engine) Join(caller [20]byte, programID uint64, commitment []byte) error {
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
	if len(commitment) == 0 || len(commitment) > MaxCommitmentBytes {
		return fmt.Errorf("%w: commitment must be 1-%d bytes", ErrInvalidParam, MaxCommitmentBytes)
	}
	if _, found, err := e.loadParticipant(programID, caller); err != nil {
		return err
	} else if found {
		return ErrAlreadyJoined
	}

	record := &Participant{
		Commitment: append([]byte(nil), commitment...),
		JoinEpoch:  now,
	}
	if err := e.st.KVPut(participantKey(programID, caller), record); err != nil {
		return err
	}
	program.TotalParticipants++
	if err := e.storeProgram(program); err != nil {
		return err
	}
	e.emit(events.IncentiveParticipantJoined{ProgramID: programID, User: caller, JoinEpoch: now})
	return nil
}

// Participant retrieves the enrollment record for a (program, user) pair.
func (e *Engine) Participant(programID uint64, user [20]byte) (*Participant, bool) {
	record, found, err := e.loadParticipant(programID, user)
	if err != nil || !found {
		return nil, false
	}
	return record.Clone(), true
}
