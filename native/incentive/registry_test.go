package incentive_test

import (
	"errors"
	"math/big"
	"testing"

	"greenchain/native/incentive"
)

func TestCreateProgramValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		in   incentive.CreateProgramInput
		want error
	}{
		{
			name: "zero budget",
			in: incentive.CreateProgramInput{
				Name: "p", Budget: big.NewInt(0), RewardPerUser: big.NewInt(1),
				DurationEpochs: 10, CommitmentType: "t",
			},
			want: incentive.ErrInvalidAmount,
		},
		{
			name: "negative reward",
			in: incentive.CreateProgramInput{
				Name: "p", Budget: big.NewInt(100), RewardPerUser: big.NewInt(-5),
				DurationEpochs: 10, CommitmentType: "t",
			},
			want: incentive.ErrInvalidAmount,
		},
		{
			name: "zero duration",
			in: incentive.CreateProgramInput{
				Name: "p", Budget: big.NewInt(100), RewardPerUser: big.NewInt(1),
				DurationEpochs: 0, CommitmentType: "t",
			},
			want: incentive.ErrInvalidParam,
		},
		{
			name: "too many tags",
			in: incentive.CreateProgramInput{
				Name: "p", Budget: big.NewInt(100), RewardPerUser: big.NewInt(1),
				DurationEpochs: 10, CommitmentType: "t",
				Tags: []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"},
			},
			want: incentive.ErrInvalidParam,
		},
		{
			name: "missing commitment type",
			in: incentive.CreateProgramInput{
				Name: "p", Budget: big.NewInt(100), RewardPerUser: big.NewInt(1),
				DurationEpochs: 10,
			},
			want: incentive.ErrInvalidParam,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := env.engine.CreateProgram(testAdmin, tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateProgramRejectsOverflowingDuration(t *testing.T) {
	env := newTestEnv(t)
	adminBefore, err := env.ledger.BalanceOf(testAdmin)
	if err != nil {
		t.Fatalf("admin balance: %v", err)
	}

	// Clock starts at 100, so this duration wraps the end epoch below the
	// start epoch.
	if _, err := env.engine.CreateProgram(testAdmin, incentive.CreateProgramInput{
		Name: "p", Budget: big.NewInt(100), RewardPerUser: big.NewInt(1),
		DurationEpochs: ^uint64(0), CommitmentType: "t",
	}); !errors.Is(err, incentive.ErrInvalidParam) {
		t.Fatalf("expected ErrInvalidParam for overflowing duration, got %v", err)
	}

	// Nothing was persisted and no budget left the admin account.
	if count, err := env.engine.ProgramCount(); err != nil || count != 0 {
		t.Fatalf("expected no program persisted, count=%d err=%v", count, err)
	}
	adminAfter, err := env.ledger.BalanceOf(testAdmin)
	if err != nil {
		t.Fatalf("admin balance: %v", err)
	}
	if adminAfter.Cmp(adminBefore) != 0 {
		t.Fatalf("admin balance mutated: %s -> %s", adminBefore, adminAfter)
	}
	vaultBal, err := env.ledger.BalanceOf(env.engine.Vault())
	if err != nil {
		t.Fatalf("vault balance: %v", err)
	}
	if vaultBal.Sign() != 0 {
		t.Fatalf("vault must stay empty, got %s", vaultBal)
	}
}

func TestCreateProgramAssignsSequentialIDs(t *testing.T) {
	env := newTestEnv(t)
	first := createTestProgram(t, env)
	second := createTestProgram(t, env)
	if first != 1 || second != 2 {
		t.Fatalf("expected sequential ids 1,2; got %d,%d", first, second)
	}
	ids, err := env.engine.ProgramsByAdmin(testAdmin)
	if err != nil {
		t.Fatalf("list by admin: %v", err)
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Fatalf("unexpected admin index: %v", ids)
	}
}

func TestCreateProgramFundsVault(t *testing.T) {
	env := newTestEnv(t)
	id := createTestProgram(t, env)
	vaultBal, err := env.ledger.BalanceOf(env.engine.Vault())
	if err != nil {
		t.Fatalf("vault balance: %v", err)
	}
	if vaultBal.Cmp(big.NewInt(10_000)) != 0 {
		t.Fatalf("expected vault funded with 10000, got %s", vaultBal)
	}
	_ = id
}

func TestCreateProgramFailsWhenAdminUnderfunded(t *testing.T) {
	env := newTestEnv(t)
	poor := addr(0x30)
	if _, err := env.engine.CreateProgram(poor, incentive.CreateProgramInput{
		Name: "p", Budget: big.NewInt(100), RewardPerUser: big.NewInt(1),
		DurationEpochs: 10, CommitmentType: "t",
	}); err == nil {
		t.Fatalf("expected funding failure for underfunded admin")
	}
	if count, err := env.engine.ProgramCount(); err != nil || count != 0 {
		t.Fatalf("expected no program persisted, count=%d err=%v", count, err)
	}
}

func TestUpdateBudgetAuthorization(t *testing.T) {
	env := newTestEnv(t)
	id := createTestProgram(t, env)

	outsider := addr(0x20)
	if err := env.engine.UpdateBudget(outsider, id, big.NewInt(20_000)); !errors.Is(err, incentive.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := env.engine.UpdateBudget(testAdmin, id, big.NewInt(5_000)); !errors.Is(err, incentive.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for decrease, got %v", err)
	}
	if err := env.engine.UpdateBudget(testAdmin, id, big.NewInt(10_000)); !errors.Is(err, incentive.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for equal budget, got %v", err)
	}
	if err := env.engine.UpdateBudget(testAdmin, id, big.NewInt(15_000)); err != nil {
		t.Fatalf("raise budget: %v", err)
	}
	program, _ := env.engine.GetProgram(id)
	if program.Budget.Cmp(big.NewInt(15_000)) != 0 {
		t.Fatalf("expected budget 15000, got %s", program.Budget)
	}
	vaultBal, _ := env.ledger.BalanceOf(env.engine.Vault())
	if vaultBal.Cmp(big.NewInt(15_000)) != 0 {
		t.Fatalf("expected vault to hold 15000, got %s", vaultBal)
	}
}

func TestUpdateBudgetUnknownProgram(t *testing.T) {
	env := newTestEnv(t)
	if err := env.engine.UpdateBudget(testAdmin, 42, big.NewInt(1)); !errors.Is(err, incentive.ErrProgramNotFound) {
		t.Fatalf("expected ErrProgramNotFound, got %v", err)
	}
}

func TestDeactivateIsTerminal(t *testing.T) {
	env := newTestEnv(t)
	id := createTestProgram(t, env)

	outsider := addr(0x21)
	if err := env.engine.Deactivate(outsider, id); !errors.Is(err, incentive.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := env.engine.Deactivate(testAdmin, id); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	program, ok := env.engine.GetProgram(id)
	if !ok || program.Active {
		t.Fatalf("expected inactive program retained for audit")
	}
	// Repeated deactivation is a no-op.
	if err := env.engine.Deactivate(testAdmin, id); err != nil {
		t.Fatalf("second deactivate: %v", err)
	}
	// A deactivated program behaves like an expired one.
	if err := env.engine.Join(testUser, id, []byte("c")); !errors.Is(err, incentive.ErrProgramExpired) {
		t.Fatalf("expected ErrProgramExpired for inactive program, got %v", err)
	}
}

func TestRemainingClaimsView(t *testing.T) {
	env := newTestEnv(t)
	id := createTestProgram(t, env)
	program, _ := env.engine.GetProgram(id)
	if got := program.RemainingClaims(); got != 100 {
		t.Fatalf("expected 100 remaining claims, got %d", got)
	}
}
