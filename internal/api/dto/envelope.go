package dto

import "encoding/json"

// ActionRequest is the single JSON envelope accepted by the /api endpoint.
// Authentication is carried out-of-band (session cookie), never in the
// envelope.
type ActionRequest struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}
