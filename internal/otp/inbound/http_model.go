package inbound

type GenerateRequest struct {
	OperationID string `json:"operationId"`
	Channel     string `json:"channel"`
}

type GenerateResponse struct {
	message string
}

func (r GenerateResponse) Message() string {
	return r.message
}

type ValidateRequest struct {
	OperationID string `json:"operationId"`
	Code        string `json:"code"`
}

type ValidateResponse struct{}

func (ValidateResponse) Message() string {
	return "OTP valid"
}

type PolicyResponse struct {
	CodeLength int `json:"codeLength"`
	TTLSeconds int `json:"ttlSeconds"`
}

// PolicyUpdateRequest accepts numbers or numeric strings.
type PolicyUpdateRequest struct {
	CodeLength any `json:"codeLength"`
	TTLSeconds any `json:"ttlSeconds"`
}

type PolicyUpdateResponse struct{}

func (PolicyUpdateResponse) Message() string {
	return "Config updated"
}
