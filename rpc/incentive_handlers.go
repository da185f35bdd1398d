package rpc

import (
	"errors"
	"math/big"
	"net/http"
	"strings"

	"greenchain/crypto"
	nativecommon "greenchain/native/common"
	"greenchain/native/incentive"
)

// programView is the JSON shape of a program record. Addresses render as
// bech32 and amounts as decimal strings so callers never lose precision.
type programView struct {
	ID                uint64   `json:"id"`
	Name              string   `json:"name"`
	Description       string   `json:"description,omitempty"`
	Admin             string   `json:"admin"`
	Budget            string   `json:"budget"`
	RewardPerUser     string   `json:"rewardPerUser"`
	StartEpoch        uint64   `json:"startEpoch"`
	EndEpoch          uint64   `json:"endEpoch"`
	Active            bool     `json:"active"`
	VerifiedCount     uint64   `json:"verifiedCount"`
	TotalParticipants uint64   `json:"totalParticipants"`
	RemainingClaims   uint64   `json:"remainingClaims"`
	Tags              []string `json:"tags,omitempty"`
	CommitmentType    string   `json:"commitmentType"`
}

type participantView struct {
	Commitment        []byte `json:"commitment"`
	JoinEpoch         uint64 `json:"joinEpoch"`
	ProofSubmitted    bool   `json:"proofSubmitted"`
	Verified          bool   `json:"verified"`
	VerificationEpoch uint64 `json:"verificationEpoch,omitempty"`
	RewardClaimed     bool   `json:"rewardClaimed"`
}

type proofView struct {
	Payload           []byte `json:"payload"`
	SubmissionEpoch   uint64 `json:"submissionEpoch"`
	Notes             string `json:"notes,omitempty"`
	Reviewed          bool   `json:"reviewed"`
	Verified          bool   `json:"verified"`
	VerificationNotes string `json:"verificationNotes,omitempty"`
}

type claimView struct {
	User       string `json:"user,omitempty"`
	Amount     string `json:"amount"`
	ClaimEpoch uint64 `json:"claimEpoch"`
}

func newProgramView(p *incentive.Program) programView {
	admin, _ := crypto.NewAddress(p.Admin[:])
	return programView{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		Admin:             admin.String(),
		Budget:            p.Budget.String(),
		RewardPerUser:     p.RewardPerUser.String(),
		StartEpoch:        p.StartEpoch,
		EndEpoch:          p.EndEpoch,
		Active:            p.Active,
		VerifiedCount:     p.VerifiedCount,
		TotalParticipants: p.TotalParticipants,
		RemainingClaims:   p.RemainingClaims(),
		Tags:              p.Tags,
		CommitmentType:    p.CommitmentType,
	}
}

func newParticipantView(p *incentive.Participant) participantView {
	return participantView{
		Commitment:        p.Commitment,
		JoinEpoch:         p.JoinEpoch,
		ProofSubmitted:    p.ProofSubmitted,
		Verified:          p.Verified,
		VerificationEpoch: p.VerificationEpoch,
		RewardClaimed:     p.RewardClaimed,
	}
}

func newProofView(p *incentive.Proof) proofView {
	return proofView{
		Payload:           p.Payload,
		SubmissionEpoch:   p.SubmissionEpoch,
		Notes:             p.Notes,
		Reviewed:          p.Reviewed,
		Verified:          p.Verified,
		VerificationNotes: p.VerificationNotes,
	}
}

func parseAddress(field, value string) ([20]byte, *RPCError) {
	addr, err := crypto.DecodeAddress(strings.TrimSpace(value))
	if err != nil {
		return [20]byte{}, &RPCError{Code: codeInvalidParams, Message: field + ": " + err.Error()}
	}
	return addr.Bytes(), nil
}

func parseAmount(field, value string) (*big.Int, *RPCError) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, &RPCError{Code: codeInvalidParams, Message: field + ": amount required"}
	}
	amount, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, &RPCError{Code: codeInvalidParams, Message: field + ": invalid decimal amount"}
	}
	return amount, nil
}

// engineError maps the engine's sentinel taxonomy onto JSON-RPC error codes
// and HTTP statuses.
func engineError(err error) (int, int) {
	switch {
	case errors.Is(err, nativecommon.ErrModulePaused):
		return http.StatusServiceUnavailable, codePaused
	case errors.Is(err, incentive.ErrUnauthorized), errors.Is(err, nativecommon.ErrNotPauseAuthority):
		return http.StatusForbidden, codeUnauthorized
	case errors.Is(err, incentive.ErrProgramNotFound), errors.Is(err, incentive.ErrProofNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, incentive.ErrAlreadyJoined),
		errors.Is(err, incentive.ErrAlreadySubmitted),
		errors.Is(err, incentive.ErrAlreadyVerified),
		errors.Is(err, incentive.ErrAlreadyClaimed):
		return http.StatusConflict, codeConflict
	case errors.Is(err, incentive.ErrProgramNotStarted),
		errors.Is(err, incentive.ErrProgramExpired),
		errors.Is(err, incentive.ErrNotVerified),
		errors.Is(err, incentive.ErrInsufficientBudget),
		errors.Is(err, incentive.ErrInvalidProof):
		return http.StatusUnprocessableEntity, codeRejected
	case errors.Is(err, incentive.ErrInvalidAmount), errors.Is(err, incentive.ErrInvalidParam):
		return http.StatusBadRequest, codeInvalidParams
	default:
		return http.StatusInternalServerError, codeServerError
	}
}

func writeEngineError(w http.ResponseWriter, id interface{}, err error) string {
	status, code := engineError(err)
	writeError(w, status, id, code, err.Error(), nil)
	return "error"
}

func writeParamError(w http.ResponseWriter, id interface{}, rpcErr *RPCError) string {
	status := http.StatusBadRequest
	if rpcErr.Code == codeUnauthorized {
		status = http.StatusUnauthorized
	}
	writeError(w, status, id, rpcErr.Code, rpcErr.Message, rpcErr.Data)
	return "error"
}

type createProgramParams struct {
	Caller         string   `json:"caller"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Budget         string   `json:"budget"`
	RewardPerUser  string   `json:"rewardPerUser"`
	DurationEpochs uint64   `json:"durationEpochs"`
	Tags           []string `json:"tags"`
	CommitmentType string   `json:"commitmentType"`
}

func (s *Server) handleCreateProgram(w http.ResponseWriter, r *http.Request, req *RPCRequest) string {
	if rpcErr := s.requireAuth(r); rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	var params createProgramParams
	if rpcErr := decodeSingleParam(req, &params); rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	caller, rpcErr := parseAddress("caller", params.Caller)
	if rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	budget, rpcErr := parseAmount("budget", params.Budget)
	if rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	reward, rpcErr := parseAmount("rewardPerUser", params.RewardPerUser)
	if rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	id, err := s.engine.CreateProgram(caller, incentive.CreateProgramInput{
		Name:           params.Name,
		Description:    params.Description,
		Budget:         budget,
		RewardPerUser:  reward,
		DurationEpochs: params.DurationEpochs,
		Tags:           params.Tags,
		CommitmentType: params.CommitmentType,
	})
	if err != nil {
		return writeEngineError(w, req.ID, err)
	}
	s.metrics.ObserveProgramCreated()
	writeResult(w, req.ID, map[string]uint64{"programId": id})
	return "ok"
}

type updateBudgetParams struct {
	Caller    string `json:"caller"`
	ProgramID uint64 `json:"programId"`
	NewBudget string `json:"newBudget"`
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request, req *RPCRequest) string {
	if rpcErr := s.requireAuth(r); rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	var params updateBudgetParams
	if rpcErr := decodeSingleParam(req, &params); rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	caller, rpcErr := parseAddress("caller", params.Caller)
	if rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	budget, rpcErr := parseAmount("newBudget", params.NewBudget)
	if rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	if err := s.engine.UpdateBudget(caller, params.ProgramID, budget); err != nil {
		return writeEngineError(w, req.ID, err)
	}
	writeResult(w, req.ID, map[string]bool{"updated": true})
	return "ok"
}

type programCallerParams struct {
	Caller    string `json:"caller"`
	ProgramID uint64 `json:"programId"`
}

func (s *Server) handleDeactivate(w http.ResponseWriter, r *http.Request, req *RPCRequest) string {
	if rpcErr := s.requireAuth(r); rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	var params programCallerParams
	if rpcErr := decodeSingleParam(req, &params); rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	caller, rpcErr := parseAddress("caller", params.Caller)
	if rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	if err := s.engine.Deactivate(caller, params.ProgramID); err != nil {
		return writeEngineError(w, req.ID, err)
	}
	writeResult(w, req.ID, map[string]bool{"active": false})
	return "ok"
}

type joinParams struct {
	Caller     string `json:"caller"`
	ProgramID  uint64 `json:"programId"`
	Commitment []byte `json:"commitment"`
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request, req *RPCRequest) string {
	if rpcErr := s.requireAuth(r); rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	var params joinParams
	if rpcErr := decodeSingleParam(req, &params); rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	caller, rpcErr := parseAddress("caller", params.Caller)
	if rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	if err := s.engine.Join(caller, params.ProgramID, params.Commitment); err != nil {
		return writeEngineError(w, req.ID, err)
	}
	writeResult(w, req.ID, map[string]bool{"joined": true})
	return "ok"
}

type submitProofParams struct {
	Caller    string `json:"caller"`
	ProgramID uint64 `json:"programId"`
	Payload   []byte `json:"payload"`
	Notes     string `json:"notes"`
}

func (s *Server) handleSubmitProof(w http.ResponseWriter, r *http.Request, req *RPCRequest) string {
	if rpcErr := s.requireAuth(r); rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	var params submitProofParams
	if rpcErr := decodeSingleParam(req, &params); rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	caller, rpcErr := parseAddress("caller", params.Caller)
	if rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	if err := s.engine.SubmitProof(caller, params.ProgramID, params.Payload, params.Notes); err != nil {
		return writeEngineError(w, req.ID, err)
	}
	writeResult(w, req.ID, map[string]bool{"submitted": true})
	return "ok"
}

type verifyProofParams struct {
	Caller    string `json:"caller"`
	ProgramID uint64 `json:"programId"`
	User      string `json:"user"`
	Valid     bool   `json:"valid"`
	Notes     string `json:"notes"`
}

func (s *Server) handleVerifyProof(w http.ResponseWriter, r *http.Request, req *RPCRequest) string {
	if rpcErr := s.requireAuth(r); rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	var params verifyProofParams
	if rpcErr := decodeSingleParam(req, &params); rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	caller, rpcErr := parseAddress("caller", params.Caller)
	if rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	user, rpcErr := parseAddress("user", params.User)
	if rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	err := s.engine.VerifyProof(caller, params.ProgramID, user, params.Valid, params.Notes)
	if err != nil {
		// A rejected proof is a recorded verdict, not a transport failure.
		if errors.Is(err, incentive.ErrInvalidProof) {
			s.metrics.ObserveProofReviewed("rejected")
			writeResult(w, req.ID, map[string]interface{}{"reviewed": true, "verified": false})
			return "ok"
		}
		return writeEngineError(w, req.ID, err)
	}
	s.metrics.ObserveProofReviewed("verified")
	writeResult(w, req.ID, map[string]interface{}{"reviewed": true, "verified": true})
	return "ok"
}

func (s *Server) handleClaimReward(w http.ResponseWriter, r *http.Request, req *RPCRequest) string {
	if rpcErr := s.requireAuth(r); rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	var params programCallerParams
	if rpcErr := decodeSingleParam(req, &params); rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	caller, rpcErr := parseAddress("caller", params.Caller)
	if rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	amount, err := s.engine.ClaimReward(caller, params.ProgramID)
	if err != nil {
		return writeEngineError(w, req.ID, err)
	}
	s.metrics.ObserveRewardClaimed()
	writeResult(w, req.ID, map[string]string{"amount": amount.String()})
	return "ok"
}

type pauseParams struct {
	Caller string `json:"caller"`
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request, req *RPCRequest) string {
	if rpcErr := s.requireAuth(r); rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	var params pauseParams
	if rpcErr := decodeSingleParam(req, &params); rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	caller, rpcErr := parseAddress("caller", params.Caller)
	if rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	if err := s.engine.Pause(caller); err != nil {
		return writeEngineError(w, req.ID, err)
	}
	writeResult(w, req.ID, map[string]bool{"paused": true})
	return "ok"
}

func (s *Server) handleUnpause(w http.ResponseWriter, r *http.Request, req *RPCRequest) string {
	if rpcErr := s.requireAuth(r); rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	var params pauseParams
	if rpcErr := decodeSingleParam(req, &params); rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	caller, rpcErr := parseAddress("caller", params.Caller)
	if rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	if err := s.engine.Unpause(caller); err != nil {
		return writeEngineError(w, req.ID, err)
	}
	writeResult(w, req.ID, map[string]bool{"paused": false})
	return "ok"
}

type programIDParams struct {
	ProgramID uint64 `json:"programId"`
}

func (s *Server) handleGetProgram(w http.ResponseWriter, req *RPCRequest) string {
	var params programIDParams
	if rpcErr := decodeSingleParam(req, &params); rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	program, ok := s.engine.GetProgram(params.ProgramID)
	if !ok {
		return writeEngineError(w, req.ID, incentive.ErrProgramNotFound)
	}
	writeResult(w, req.ID, newProgramView(program))
	return "ok"
}

type programUserParams struct {
	ProgramID uint64 `json:"programId"`
	User      string `json:"user"`
}

func (s *Server) handleGetParticipant(w http.ResponseWriter, req *RPCRequest) string {
	var params programUserParams
	if rpcErr := decodeSingleParam(req, &params); rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	user, rpcErr := parseAddress("user", params.User)
	if rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	participant, ok := s.engine.Participant(params.ProgramID, user)
	if !ok {
		writeError(w, http.StatusNotFound, req.ID, codeNotFound, "participant not found", nil)
		return "error"
	}
	writeResult(w, req.ID, newParticipantView(participant))
	return "ok"
}

func (s *Server) handleGetProof(w http.ResponseWriter, req *RPCRequest) string {
	var params programUserParams
	if rpcErr := decodeSingleParam(req, &params); rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	user, rpcErr := parseAddress("user", params.User)
	if rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	proof, ok := s.engine.Proof(params.ProgramID, user)
	if !ok {
		return writeEngineError(w, req.ID, incentive.ErrProofNotFound)
	}
	writeResult(w, req.ID, newProofView(proof))
	return "ok"
}

func (s *Server) handleGetClaim(w http.ResponseWriter, req *RPCRequest) string {
	var params programUserParams
	if rpcErr := decodeSingleParam(req, &params); rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	user, rpcErr := parseAddress("user", params.User)
	if rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	claim, ok := s.engine.Claim(params.ProgramID, user)
	if !ok {
		writeError(w, http.StatusNotFound, req.ID, codeNotFound, "claim not found", nil)
		return "error"
	}
	writeResult(w, req.ID, claimView{Amount: claim.Amount.String(), ClaimEpoch: claim.ClaimEpoch})
	return "ok"
}

func (s *Server) handleClaimHistory(w http.ResponseWriter, req *RPCRequest) string {
	var params programIDParams
	if rpcErr := decodeSingleParam(req, &params); rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	entries, err := s.engine.ClaimHistory(params.ProgramID)
	if err != nil {
		return writeEngineError(w, req.ID, err)
	}
	views := make([]claimView, 0, len(entries))
	for _, entry := range entries {
		user, _ := crypto.NewAddress(entry.User[:])
		views = append(views, claimView{
			User:       user.String(),
			Amount:     entry.Claim.Amount.String(),
			ClaimEpoch: entry.Claim.ClaimEpoch,
		})
	}
	writeResult(w, req.ID, views)
	return "ok"
}

type adminParams struct {
	Admin string `json:"admin"`
}

func (s *Server) handleProgramsByAdmin(w http.ResponseWriter, req *RPCRequest) string {
	var params adminParams
	if rpcErr := decodeSingleParam(req, &params); rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	admin, rpcErr := parseAddress("admin", params.Admin)
	if rpcErr != nil {
		return writeParamError(w, req.ID, rpcErr)
	}
	ids, err := s.engine.ProgramsByAdmin(admin)
	if err != nil {
		return writeEngineError(w, req.ID, err)
	}
	writeResult(w, req.ID, ids)
	return "ok"
}

func (s *Server) handleProgramCount(w http.ResponseWriter, req *RPCRequest) string {
	if len(req.Params) != 0 {
		return writeParamError(w, req.ID, &RPCError{Code: codeInvalidParams, Message: "no parameters expected"})
	}
	count, err := s.engine.ProgramCount()
	if err != nil {
		return writeEngineError(w, req.ID, err)
	}
	writeResult(w, req.ID, map[string]uint64{"count": count})
	return "ok"
}
