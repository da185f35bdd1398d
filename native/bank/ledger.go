package bank

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var (
	ErrNilState            = errors.New("bank: state not configured")
	ErrInvalidAmount       = errors.New("bank: amount must be positive")
	ErrInsufficientBalance = errors.New("bank: insufficient balance")
)

// ledgerState is the slice of the state manager the ledger needs.
type ledgerState interface {
	Balance(addr []byte, symbol string) (*big.Int, error)
	SetBalance(addr []byte, symbol string, amount *big.Int) error
	TokenExists(symbol string) bool
}

// Ledger moves the native reward token between accounts. It is the
// value-transfer collaborator consumed by the incentive engine: a transfer
// either fully applies or leaves both balances untouched.
type Ledger struct {
	st    ledgerState
	token string
}

// NewLedger creates a ledger for the provided token symbol.
func NewLedger(st ledgerState, token string) (*Ledger, error) {
	if st == nil {
		return nil, ErrNilState
	}
	normalized := strings.ToUpper(strings.TrimSpace(token))
	if !st.TokenExists(normalized) {
		return nil, fmt.Errorf("bank: token %s not registered", normalized)
	}
	return &Ledger{st: st, token: normalized}, nil
}

// Token returns the symbol the ledger operates on.
func (l *Ledger) Token() string {
	return l.token
}

// Transfer moves amount from one account to the other. The debit is checked
// before any balance is written, so a failure leaves no partial mutation.
func (l *Ledger) Transfer(from, to [20]byte, amount *big.Int) error {
	if l == nil || l.st == nil {
		return ErrNilState
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if from == to {
		return fmt.Errorf("bank: self transfer")
	}
	fromBal, err := l.st.Balance(from[:], l.token)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	toBal, err := l.st.Balance(to[:], l.token)
	if err != nil {
		return err
	}
	if err := l.st.SetBalance(from[:], l.token, new(big.Int).Sub(fromBal, amount)); err != nil {
		return err
	}
	return l.st.SetBalance(to[:], l.token, new(big.Int).Add(toBal, amount))
}

// Mint credits freshly issued tokens to the provided account. Used at genesis
// to seed program admin balances.
func (l *Ledger) Mint(to [20]byte, amount *big.Int) error {
	if l == nil || l.st == nil {
		return ErrNilState
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	bal, err := l.st.Balance(to[:], l.token)
	if err != nil {
		return err
	}
	return l.st.SetBalance(to[:], l.token, new(big.Int).Add(bal, amount))
}

// BalanceOf reports the current balance of the account.
func (l *Ledger) BalanceOf(addr [20]byte) (*big.Int, error) {
	if l == nil || l.st == nil {
		return nil, ErrNilState
	}
	return l.st.Balance(addr[:], l.token)
}
