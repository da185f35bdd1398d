package incentive_test

import (
	"errors"
	"math/big"
	"testing"

	"greenchain/native/incentive"
)

func verifiedParticipant(t *testing.T, env *testEnv, id uint64, user [20]byte) {
	t.Helper()
	if err := env.engine.Join(user, id, []byte("c")); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := env.engine.SubmitProof(user, id, []byte("p"), ""); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := env.engine.VerifyProof(testVerifier, id, user, true, ""); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestClaimRequiresVerification(t *testing.T) {
	env := newTestEnv(t)
	id := createTestProgram(t, env)

	if _, err := env.engine.ClaimReward(testUser, id); !errors.Is(err, incentive.ErrNotVerified) {
		t.Fatalf("expected ErrNotVerified for non-participant, got %v", err)
	}
	if err := env.engine.Join(testUser, id, []byte("c")); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := env.engine.ClaimReward(testUser, id); !errors.Is(err, incentive.ErrNotVerified) {
		t.Fatalf("expected ErrNotVerified before verification, got %v", err)
	}
}

func TestClaimIsSingleShot(t *testing.T) {
	env := newTestEnv(t)
	id := createTestProgram(t, env)
	verifiedParticipant(t, env, id, testUser)

	if _, err := env.engine.ClaimReward(testUser, id); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if _, err := env.engine.ClaimReward(testUser, id); !errors.Is(err, incentive.ErrAlreadyClaimed) {
		t.Fatalf("expected ErrAlreadyClaimed, got %v", err)
	}
}

func TestBudgetAccountingAcrossClaims(t *testing.T) {
	env := newTestEnv(t)
	id, err := env.engine.CreateProgram(testAdmin, incentive.CreateProgramInput{
		Name: "small", Budget: big.NewInt(250), RewardPerUser: big.NewInt(100),
		DurationEpochs: 1_000, CommitmentType: "t",
	})
	if err != nil {
		t.Fatalf("create program: %v", err)
	}

	users := [][20]byte{addr(0x40), addr(0x41), addr(0x42)}
	for _, u := range users {
		verifiedParticipant(t, env, id, u)
	}

	// Budget 250 covers exactly two claims of 100.
	for i := 0; i < 2; i++ {
		if _, err := env.engine.ClaimReward(users[i], id); err != nil {
			t.Fatalf("claim %d: %v", i, err)
		}
	}
	if _, err := env.engine.ClaimReward(users[2], id); !errors.Is(err, incentive.ErrInsufficientBudget) {
		t.Fatalf("expected ErrInsufficientBudget, got %v", err)
	}
	program, _ := env.engine.GetProgram(id)
	if program.Budget.Cmp(big.NewInt(50)) != 0 {
		t.Fatalf("expected residual budget 50, got %s", program.Budget)
	}

	// Admin tops up and the third claim goes through.
	if err := env.engine.UpdateBudget(testAdmin, id, big.NewInt(150)); err != nil {
		t.Fatalf("top up: %v", err)
	}
	if _, err := env.engine.ClaimReward(users[2], id); err != nil {
		t.Fatalf("claim after top up: %v", err)
	}
	program, _ = env.engine.GetProgram(id)
	if program.Budget.Cmp(big.NewInt(50)) != 0 {
		t.Fatalf("expected budget 50 after third claim, got %s", program.Budget)
	}

	history, err := env.engine.ClaimHistory(id)
	if err != nil {
		t.Fatalf("claim history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 history entries, got %d", len(history))
	}
	total := big.NewInt(0)
	for _, entry := range history {
		total.Add(total, entry.Claim.Amount)
	}
	if total.Cmp(big.NewInt(300)) != 0 {
		t.Fatalf("expected 300 paid out, got %s", total)
	}
}

func TestClaimOutsideWindow(t *testing.T) {
	env := newTestEnv(t)
	id := createTestProgram(t, env)
	verifiedParticipant(t, env, id, testUser)

	env.clock.AdvanceTo(2_000)
	if _, err := env.engine.ClaimReward(testUser, id); !errors.Is(err, incentive.ErrProgramExpired) {
		t.Fatalf("expected ErrProgramExpired, got %v", err)
	}
}

// failingLedger rejects every transfer so settlement rollback can be observed.
type failingLedger struct{}

func (failingLedger) Transfer(from, to [20]byte, amount *big.Int) error {
	return errors.New("ledger offline")
}

func TestClaimRollsBackOnTransferFailure(t *testing.T) {
	env := newTestEnv(t)
	id := createTestProgram(t, env)
	verifiedParticipant(t, env, id, testUser)

	env.engine.SetLedger(failingLedger{})
	if _, err := env.engine.ClaimReward(testUser, id); err == nil {
		t.Fatalf("expected transfer failure to surface")
	}

	// No partial settlement: flag, budget and history are untouched.
	record, _ := env.engine.Participant(id, testUser)
	if record.RewardClaimed {
		t.Fatalf("reward-claimed must stay false after failed transfer")
	}
	program, _ := env.engine.GetProgram(id)
	if program.Budget.Cmp(big.NewInt(10_000)) != 0 {
		t.Fatalf("budget must stay 10000, got %s", program.Budget)
	}
	if _, ok := env.engine.Claim(id, testUser); ok {
		t.Fatalf("no history entry may exist after failed transfer")
	}

	// Restoring the ledger lets the claim settle.
	env.engine.SetLedger(env.ledger)
	if _, err := env.engine.ClaimReward(testUser, id); err != nil {
		t.Fatalf("claim after ledger recovery: %v", err)
	}
}
