package incentive

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"strings"

	"greenchain/core/events"
)

// CreateProgramInput carries the caller-supplied program definition. The
// admin of the new program is the caller; start and end epochs are derived
// from the current epoch and the requested duration.
type CreateProgramInput struct {
	Name           string
	Description    string
	Budget         *big.Int
	RewardPerUser  *big.Int
	DurationEpochs uint64
	Tags           []string
	CommitmentType string
}

func (in *CreateProgramInput) sanitize() (*CreateProgramInput, error) {
	out := *in
	out.Name = strings.TrimSpace(out.Name)
	out.Description = strings.TrimSpace(out.Description)
	out.CommitmentType = strings.TrimSpace(out.CommitmentType)
	if out.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrInvalidParam)
	}
	if out.CommitmentType == "" {
		return nil, fmt.Errorf("%w: commitment type required", ErrInvalidParam)
	}
	if out.Budget == nil || out.Budget.Sign() <= 0 {
		return nil, fmt.Errorf("%w: budget must be positive", ErrInvalidAmount)
	}
	if out.RewardPerUser == nil || out.RewardPerUser.Sign() <= 0 {
		return nil, fmt.Errorf("%w: reward per user must be positive", ErrInvalidAmount)
	}
	if out.DurationEpochs == 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrInvalidParam)
	}
	if len(out.Tags) > MaxProgramTags {
		return nil, fmt.Errorf("%w: at most %d tags", ErrInvalidParam, MaxProgramTags)
	}
	tags := make([]string, 0, len(out.Tags))
	for _, tag := range out.Tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: empty tag", ErrInvalidParam)
		}
		tags = append(tags, trimmed)
	}
	out.Tags = tags
	out.Budget = cloneBigInt(out.Budget)
	out.RewardPerUser = cloneBigInt(out.RewardPerUser)
	return &out, nil
}

// CreateProgram validates the definition, funds the engine vault with the
// initial budget from the caller and persists the program under the next
// sequential id. The caller becomes the program admin.
func (e *Engine) CreateProgram(caller [20]byte, in CreateProgramInput) (uint64, error) {
	if e == nil || e.st == nil {
		return 0, errNilState
	}
	if err := e.guard(); err != nil {
		return 0, err
	}
	sanitized, err := in.sanitize()
	if err != nil {
		return 0, err
	}

	var counter uint64
	if _, err := e.st.KVGet(programCounterKey, &counter); err != nil {
		return 0, err
	}
	id := counter + 1
	now := e.nowEpoch()
	// The window must close strictly after it opens; a duration large enough
	// to wrap the end epoch below the current one would create a program that
	// is born expired with its budget stranded in the vault.
	if now+sanitized.DurationEpochs < now {
		return 0, fmt.Errorf("%w: duration overflows the epoch range", ErrInvalidParam)
	}

	if e.ledger == nil {
		return 0, errNilLedger
	}
	if err := e.ledger.Transfer(caller, e.vault, sanitized.Budget); err != nil {
		return 0, fmt.Errorf("incentive: fund budget: %w", err)
	}

	program := &Program{
		ID:             id,
		Name:           sanitized.Name,
		Description:    sanitized.Description,
		Admin:          caller,
		Budget:         sanitized.Budget,
		RewardPerUser:  sanitized.RewardPerUser,
		StartEpoch:     now,
		EndEpoch:       now + sanitized.DurationEpochs,
		Active:         true,
		Tags:           sanitized.Tags,
		CommitmentType: sanitized.CommitmentType,
	}
	if err := e.storeProgram(program); err != nil {
		return 0, err
	}
	if err := e.st.KVPut(programCounterKey, id); err != nil {
		return 0, err
	}
	if err := e.st.KVAppend(adminIndexKey(caller), programIDBytes(id)); err != nil {
		return 0, err
	}
	e.emit(events.IncentiveProgramCreated{
		ID:             id,
		Admin:          caller,
		Budget:         cloneBigInt(program.Budget),
		RewardPerUser:  cloneBigInt(program.RewardPerUser),
		StartEpoch:     program.StartEpoch,
		EndEpoch:       program.EndEpoch,
		CommitmentType: program.CommitmentType,
	})
	return id, nil
}

// UpdateBudget raises the claimable budget of a program. Only the program
// admin may call it, the new budget must strictly exceed the current one, and
// the difference is funded from the admin into the vault before the program
// record changes.
func (e *Engine) UpdateBudget(caller [20]byte, id uint64, newBudget *big.Int) error {
	if e == nil || e.st == nil {
		return errNilState
	}
	if err := e.guard(); err != nil {
		return err
	}
	program, err := e.loadProgram(id)
	if err != nil {
		return err
	}
	if caller != program.Admin {
		return ErrUnauthorized
	}
	if newBudget == nil || newBudget.Sign() <= 0 {
		return fmt.Errorf("%w: budget must be positive", ErrInvalidAmount)
	}
	if newBudget.Cmp(program.Budget) <= 0 {
		return fmt.Errorf("%w: budget may only increase", ErrInvalidAmount)
	}
	delta := new(big.Int).Sub(newBudget, program.Budget)
	if e.ledger == nil {
		return errNilLedger
	}
	if err := e.ledger.Transfer(caller, e.vault, delta); err != nil {
		return fmt.Errorf("incentive: fund budget: %w", err)
	}
	oldBudget := program.Budget
	program.Budget = cloneBigInt(newBudget)
	if err := e.storeProgram(program); err != nil {
		return err
	}
	e.emit(events.IncentiveBudgetRaised{
		ID:        id,
		Admin:     caller,
		OldBudget: cloneBigInt(oldBudget),
		NewBudget: cloneBigInt(program.Budget),
	})
	return nil
}

// Deactivate retires a program. The transition is terminal: there is no
// reactivation operation, and the record stays in state for audit. Repeated
// calls by the admin are no-ops.
func (e *Engine) Deactivate(caller [20]byte, id uint64) error {
	if e == nil || e.st == nil {
		return errNilState
	}
	if err := e.guard(); err != nil {
		return err
	}
	program, err := e.loadProgram(id)
	if err != nil {
		return err
	}
	if caller != program.Admin {
		return ErrUnauthorized
	}
	if !program.Active {
		return nil
	}
	program.Active = false
	if err := e.storeProgram(program); err != nil {
		return err
	}
	e.emit(events.IncentiveProgramDeactivated{ID: id, Caller: caller})
	return nil
}

// GetProgram retrieves a program by id. Reads are never blocked by the pause
// gate.
func (e *Engine) GetProgram(id uint64) (*Program, bool) {
	program, err := e.loadProgram(id)
	if err != nil {
		return nil, false
	}
	return program.Clone(), true
}

// ProgramCount returns the highest assigned program id.
func (e *Engine) ProgramCount() (uint64, error) {
	if e == nil || e.st == nil {
		return 0, errNilState
	}
	var counter uint64
	if _, err := e.st.KVGet(programCounterKey, &counter); err != nil {
		return 0, err
	}
	return counter, nil
}

// ProgramsByAdmin returns the ids of all programs administered by the
// provided address, in creation order.
func (e *Engine) ProgramsByAdmin(admin [20]byte) ([]uint64, error) {
	if e == nil || e.st == nil {
		return nil, errNilState
	}
	var raw [][]byte
	if err := e.st.KVGetList(adminIndexKey(admin), &raw); err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(raw))
	for _, b := range raw {
		if len(b) != 8 {
			continue
		}
		ids = append(ids, binary.BigEndian.Uint64(b))
	}
	return ids, nil
}
