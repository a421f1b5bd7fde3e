package inbound

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shandysiswandi/otpgate/internal/otp/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
)

const headerIdempotencyKey = "Idempotency-Key"

// HTTPEndpoint exposes HTTP handlers for code issue and verification and for the policy.
type HTTPEndpoint struct {
	uc uc
}

// Generate issues a code and delivers it over the requested channel.
// An Idempotency-Key header makes retries of the same request safe.
func (h *HTTPEndpoint) Generate(r *router.Request) (any, error) {
	var req GenerateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Generate(r.Context(), usecase.GenerateInput{
		OperationID:    strings.TrimSpace(req.OperationID),
		Channel:        req.Channel,
		IdempotencyKey: strings.TrimSpace(r.Header.Get(headerIdempotencyKey)),
	})
	if err != nil {
		return nil, err
	}

	return GenerateResponse{message: resp.Message}, nil
}

func (h *HTTPEndpoint) Validate(r *router.Request) (any, error) {
	var req ValidateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.Validate(r.Context(), usecase.ValidateInput{
		OperationID: strings.TrimSpace(req.OperationID),
		Code:        strings.TrimSpace(req.Code),
	}); err != nil {
		return nil, err
	}

	return ValidateResponse{}, nil
}

func (h *HTTPEndpoint) GetPolicy(r *router.Request) (any, error) {
	p, err := h.uc.GetPolicy(r.Context())
	if err != nil {
		return nil, err
	}

	return PolicyResponse{CodeLength: p.CodeLength, TTLSeconds: p.TTLSeconds}, nil
}

func (h *HTTPEndpoint) UpdatePolicy(r *router.Request) (any, error) {
	var req PolicyUpdateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.UpdatePolicy(r.Context(), usecase.UpdatePolicyInput{
		CodeLength: rawParam(req.CodeLength),
		TTLSeconds: rawParam(req.TTLSeconds),
	}); err != nil {
		return nil, err
	}

	return PolicyUpdateResponse{}, nil
}

// rawParam renders a decoded JSON or form value as text; nil becomes "".
func rawParam(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
