package incentive

import (
	"errors"
	"math/big"

	"greenchain/core/events"
	nativecommon "greenchain/native/common"
)

var (
	errNilState  = errors.New("incentive engine: state not configured")
	errNilLedger = errors.New("incentive engine: token ledger not configured")
)

// engineState describes the slice of the state manager the engine operates
// on. All record mutations within one operation happen against this single
// backend, so the environment's serialized execution keeps them atomic.
type engineState interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
	KVAppend(key []byte, value []byte) error
	KVGetList(key []byte, out interface{}) error
	HasRole(role string, addr []byte) bool
}

// TokenLedger is the external value-transfer collaborator. A failed transfer
// must leave no balance mutated; the engine orders every settlement so that
// its own state is only written after the transfer reports success.
type TokenLedger interface {
	Transfer(from, to [20]byte, amount *big.Int) error
}

// Engine implements the incentive program state machine: program lifecycle,
// enrollment, proof verification and reward settlement.
type Engine struct {
	st       engineState
	ledger   TokenLedger
	emitter  events.Emitter
	pauses   nativecommon.PauseView
	pauseCtl *nativecommon.PauseRegistry
	epochFn  func() uint64
	vault    [20]byte
}

// NewEngine creates an engine backed by the provided state manager.
func NewEngine(st engineState) *Engine {
	return &Engine{
		st:      st,
		emitter: events.NoopEmitter{},
		epochFn: func() uint64 { return 0 },
		vault:   VaultAddress(),
	}
}

// SetLedger configures the value-transfer collaborator.
func (e *Engine) SetLedger(ledger TokenLedger) { e.ledger = ledger }

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetPauses configures the pause view consulted before every mutation.
func (e *Engine) SetPauses(p nativecommon.PauseView) {
	if e == nil {
		return
	}
	e.pauses = p
}

// SetPauseRegistry wires the authority-gated registry behind Pause/Resume.
// The registry also serves as the pause view.
func (e *Engine) SetPauseRegistry(r *nativecommon.PauseRegistry) {
	if e == nil || r == nil {
		return
	}
	e.pauseCtl = r
	e.pauses = r
}

// SetEpochFunc overrides the monotonic time source. The engine reads it once
// per operation; epochs never advance mid-call.
func (e *Engine) SetEpochFunc(fn func() uint64) {
	if fn == nil {
		e.epochFn = func() uint64 { return 0 }
		return
	}
	e.epochFn = fn
}

// Vault returns the module escrow account holding funded budgets.
func (e *Engine) Vault() [20]byte { return e.vault }

func (e *Engine) guard() error {
	return nativecommon.Guard(e.pauses, ModuleName)
}

func (e *Engine) nowEpoch() uint64 {
	if e == nil || e.epochFn == nil {
		return 0
	}
	return e.epochFn()
}

func (e *Engine) emit(event events.Event) {
	if e == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(event)
}

// Pause halts every mutating entry point. Only the pause authority may call
// it; read accessors stay available.
func (e *Engine) Pause(caller [20]byte) error {
	if e.pauseCtl == nil {
		return ErrNotAdmin
	}
	if err := e.pauseCtl.Pause(caller, ModuleName); err != nil {
		return err
	}
	e.emit(events.IncentivePaused{Caller: caller})
	return nil
}

// Unpause releases the global halt.
func (e *Engine) Unpause(caller [20]byte) error {
	if e.pauseCtl == nil {
		return ErrNotAdmin
	}
	if err := e.pauseCtl.Resume(caller, ModuleName); err != nil {
		return err
	}
	e.emit(events.IncentiveResumed{Caller: caller})
	return nil
}

func (e *Engine) loadProgram(id uint64) (*Program, error) {
	if e == nil || e.st == nil {
		return nil, errNilState
	}
	p := new(Program)
	found, err := e.st.KVGet(programKey(id), p)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrProgramNotFound
	}
	return p, nil
}

func (e *Engine) storeProgram(p *Program) error {
	return e.st.KVPut(programKey(p.ID), p)
}

func (e *Engine) loadParticipant(id uint64, user [20]byte) (*Participant, bool, error) {
	rec := new(Participant)
	found, err := e.st.KVGet(participantKey(id, user), rec)
	if err != nil {
		return nil, false, err
	}
	return rec, found, nil
}

func (e *Engine) loadProof(id uint64, user [20]byte) (*Proof, bool, error) {
	rec := new(Proof)
	found, err := e.st.KVGet(proofKey(id, user), rec)
	if err != nil {
		return nil, false, err
	}
	return rec, found, nil
}

// checkWindow enforces the program lifecycle gate shared by join, submission
// and settlement. A deactivated program behaves like one whose window closed;
// both boundary epochs are accepted.
func (e *Engine) checkWindow(p *Program, now uint64) error {
	if !p.Active {
		return ErrProgramExpired
	}
	if now < p.StartEpoch {
		return ErrProgramNotStarted
	}
	if now > p.EndEpoch {
		return ErrProgramExpired
	}
	return nil
}
