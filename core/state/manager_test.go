package state_test

import (
	"math/big"
	"testing"

	"greenchain/core/state"
	"greenchain/storage"
)

func newManager(t *testing.T) *state.Manager {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(db.Close)
	return state.NewManager(db)
}

func TestTokenRegistry(t *testing.T) {
	m := newManager(t)
	if m.TokenExists("GRN") {
		t.Fatalf("token must not exist before registration")
	}
	if err := m.RegisterToken("grn", "Green Incentive Token", 18); err != nil {
		t.Fatalf("register: %v", err)
	}
	if !m.TokenExists("GRN") {
		t.Fatalf("expected normalized token to exist")
	}
	if err := m.RegisterToken("GRN", "dup", 18); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	meta, err := m.Token("grn")
	if err != nil || meta == nil {
		t.Fatalf("token metadata: %v", err)
	}
	if meta.Symbol != "GRN" || meta.Decimals != 18 {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
}

func TestBalances(t *testing.T) {
	m := newManager(t)
	if err := m.RegisterToken("GRN", "Green Incentive Token", 18); err != nil {
		t.Fatalf("register: %v", err)
	}
	addr := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A,
		0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0x10, 0x11, 0x12, 0x13, 0x14}

	bal, err := m.Balance(addr, "GRN")
	if err != nil || bal.Sign() != 0 {
		t.Fatalf("fresh account must report zero: %s %v", bal, err)
	}
	if err := m.SetBalance(addr, "GRN", big.NewInt(42)); err != nil {
		t.Fatalf("set balance: %v", err)
	}
	bal, _ = m.Balance(addr, "GRN")
	if bal.Cmp(big.NewInt(42)) != 0 {
		t.Fatalf("unexpected balance: %s", bal)
	}
	if err := m.SetBalance(addr, "GRN", big.NewInt(-1)); err == nil {
		t.Fatalf("negative balance must fail")
	}
	if err := m.SetBalance(addr, "NOPE", big.NewInt(1)); err == nil {
		t.Fatalf("unregistered token must fail")
	}
}

func TestRoles(t *testing.T) {
	m := newManager(t)
	member := []byte{0xAA, 0xBB}
	if m.HasRole("ROLE_PROOF_VERIFIER", member) {
		t.Fatalf("role must be empty initially")
	}
	if err := m.SetRole("ROLE_PROOF_VERIFIER", member); err != nil {
		t.Fatalf("set role: %v", err)
	}
	// Duplicate assignment is a no-op.
	if err := m.SetRole("ROLE_PROOF_VERIFIER", member); err != nil {
		t.Fatalf("duplicate set role: %v", err)
	}
	if !m.HasRole("ROLE_PROOF_VERIFIER", member) {
		t.Fatalf("expected member to hold role")
	}
	members, err := m.RoleMembers("ROLE_PROOF_VERIFIER")
	if err != nil || len(members) != 1 {
		t.Fatalf("unexpected members: %v %v", members, err)
	}
}

func TestKVRoundTrip(t *testing.T) {
	m := newManager(t)

	type record struct {
		Name  string
		Count uint64
		Flag  bool
	}
	in := record{Name: "x", Count: 7, Flag: true}
	if err := m.KVPut([]byte("test/record"), &in); err != nil {
		t.Fatalf("put: %v", err)
	}
	var out record
	found, err := m.KVGet([]byte("test/record"), &out)
	if err != nil || !found {
		t.Fatalf("get: found=%v err=%v", found, err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: %+v", out)
	}
	found, err = m.KVGet([]byte("test/absent"), &out)
	if err != nil || found {
		t.Fatalf("absent key must report not found: %v %v", found, err)
	}
}

func TestKVAppendDeduplicates(t *testing.T) {
	m := newManager(t)
	key := []byte("test/list")
	if err := m.KVAppend(key, []byte("a")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := m.KVAppend(key, []byte("a")); err != nil {
		t.Fatalf("duplicate append: %v", err)
	}
	if err := m.KVAppend(key, []byte("b")); err != nil {
		t.Fatalf("append: %v", err)
	}
	var list [][]byte
	if err := m.KVGetList(key, &list); err != nil {
		t.Fatalf("get list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(list))
	}
	var empty [][]byte
	if err := m.KVGetList([]byte("test/none"), &empty); err != nil {
		t.Fatalf("get empty list: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected initialised empty slice")
	}
}
