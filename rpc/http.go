package rpc

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"greenchain/native/incentive"
	"greenchain/observability/metrics"
)

const (
	jsonRPCVersion  = "2.0"
	maxRequestBytes = 1 << 20 // 1 MiB
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeUnauthorized   = -32001
	codeServerError    = -32000
	codePaused         = -32030
	codeNotFound       = -32040
	codeConflict       = -32050
	codeRejected       = -32060
)

// Server exposes the incentive engine over a single JSON-RPC 2.0 endpoint.
// Mutating methods require the bearer token when one is configured; read
// accessors are always open, mirroring the engine's pause semantics.
type Server struct {
	engine    *incentive.Engine
	authToken string
	metrics   *metrics.IncentiveMetrics
}

// NewServer creates a server for the provided engine. tokenEnv names the
// environment variable holding the bearer token; an empty value disables
// authentication (local development only).
func NewServer(engine *incentive.Engine, tokenEnv string) *Server {
	token := ""
	if strings.TrimSpace(tokenEnv) != "" {
		token = strings.TrimSpace(os.Getenv(tokenEnv))
	}
	return &Server{
		engine:    engine,
		authToken: token,
		metrics:   metrics.Incentive(),
	}
}

// Router builds the HTTP handler including the Prometheus endpoint.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handle)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Start serves the RPC endpoint until the listener fails.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

type RPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      int               `json:"id"`
}

type RPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeError(w http.ResponseWriter, status int, id interface{}, code int, message string, data interface{}) {
	if status <= 0 {
		status = http.StatusBadRequest
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	errObj := &RPCError{Code: code, Message: message}
	if data != nil {
		errObj.Data = data
	}
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Error: errObj}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result}
	_ = json.NewEncoder(w).Encode(resp)
}

// requireAuth checks the bearer token on privileged methods. With no token
// configured every caller is accepted.
func (s *Server) requireAuth(r *http.Request) *RPCError {
	if s.authToken == "" {
		return nil
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return &RPCError{Code: codeUnauthorized, Message: "missing bearer token"}
	}
	supplied := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if subtle.ConstantTimeCompare([]byte(supplied), []byte(s.authToken)) != 1 {
		return &RPCError{Code: codeUnauthorized, Message: "invalid bearer token"}
	}
	return nil
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, nil, codeInvalidRequest, "POST required", nil)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "failed to read request", nil)
		return
	}
	if len(body) > maxRequestBytes {
		writeError(w, http.StatusRequestEntityTooLarge, nil, codeInvalidRequest, "request too large", nil)
		return
	}
	var req RPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "invalid JSON-RPC request", err.Error())
		return
	}

	status := "ok"
	switch req.Method {
	case "incentive_createProgram":
		status = s.handleCreateProgram(w, r, &req)
	case "incentive_updateBudget":
		status = s.handleUpdateBudget(w, r, &req)
	case "incentive_deactivate":
		status = s.handleDeactivate(w, r, &req)
	case "incentive_join":
		status = s.handleJoin(w, r, &req)
	case "incentive_submitProof":
		status = s.handleSubmitProof(w, r, &req)
	case "incentive_verifyProof":
		status = s.handleVerifyProof(w, r, &req)
	case "incentive_claimReward":
		status = s.handleClaimReward(w, r, &req)
	case "incentive_pause":
		status = s.handlePause(w, r, &req)
	case "incentive_unpause":
		status = s.handleUnpause(w, r, &req)
	case "incentive_getProgram":
		status = s.handleGetProgram(w, &req)
	case "incentive_getParticipant":
		status = s.handleGetParticipant(w, &req)
	case "incentive_getProof":
		status = s.handleGetProof(w, &req)
	case "incentive_getClaim":
		status = s.handleGetClaim(w, &req)
	case "incentive_claimHistory":
		status = s.handleClaimHistory(w, &req)
	case "incentive_programsByAdmin":
		status = s.handleProgramsByAdmin(w, &req)
	case "incentive_programCount":
		status = s.handleProgramCount(w, &req)
	default:
		writeError(w, http.StatusNotFound, req.ID, codeMethodNotFound, fmt.Sprintf("unknown method %s", req.Method), nil)
		status = "method_not_found"
	}
	s.metrics.ObserveRPCRequest(req.Method, status)
}

func decodeSingleParam(req *RPCRequest, out interface{}) *RPCError {
	if len(req.Params) != 1 {
		return &RPCError{Code: codeInvalidParams, Message: "exactly one parameter object expected"}
	}
	if err := json.Unmarshal(req.Params[0], out); err != nil {
		return &RPCError{Code: codeInvalidParams, Message: "invalid parameter object", Data: err.Error()}
	}
	return nil
}
