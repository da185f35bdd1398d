package incentive

import ethcrypto "github.com/ethereum/go-ethereum/crypto"

const (
	// ModuleName identifies the engine for the pause gate and event stream.
	ModuleName = "incentive"

	// RoleProofVerifier marks the oracle identity allowed to assert proof
	// outcomes.
	RoleProofVerifier = "ROLE_PROOF_VERIFIER"

	// MaxProgramTags bounds the tag list on a program definition.
	MaxProgramTags = 8
	// MaxCommitmentBytes bounds the opaque commitment blob supplied at join.
	MaxCommitmentBytes = 512
	// MaxProofBytes bounds the proof payload.
	MaxProofBytes = 4096
	// MaxNotesBytes bounds free-text notes on proofs and verifications.
	MaxNotesBytes = 1024
)

// VaultAddress is the module-owned escrow account that holds funded program
// budgets until settlement pays them out.
func VaultAddress() [20]byte {
	var vault [20]byte
	copy(vault[:], ethcrypto.Keccak256([]byte("greenchain/incentive/vault"))[12:])
	return vault
}
