package bridge

// Request types for WebSocket commands with validation tags.
// These types define the expected input for each command and use
// go-playground/validator struct tags for automatic validation.

// SimCallRequest is the request body for sim/call.
type SimCallRequest struct {
	Action string `json:"action" validate:"required,oneof=place answer end"`
	Number string `json:"number" validate:"omitempty,max=32"`
}

// SimFocusRequest is the request body for sim/focus.
type SimFocusRequest struct {
	Action string `json:"action" validate:"required,oneof=take take-transient duck return"`
}
