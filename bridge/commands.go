package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/calldetect"
	"github.com/opd-ai/calldetect/sim"
)

// Command is a command received from a WebSocket client.
type Command struct {
	Type string          `json:"type"`
	ID   string          `json:"id,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// CallStateData is the payload returned for call/state.
type CallStateData struct {
	State    string `json:"state"`
	IsActive bool   `json:"isActive"`
}

// StatusResponse is the status snapshot pushed to WebSocket clients.
type StatusResponse struct {
	Type                string `json:"type"`
	GsmListening        bool   `json:"gsmListening"`
	AudioFocusListening bool   `json:"audioFocusListening"`
	CallState           string `json:"callState"`
	FocusState          string `json:"focusState"`
	HasAudioFocus       bool   `json:"hasAudioFocus"`
}

// ErrNoSimulator is reported for sim/* commands when the server runs
// against real sources and no simulator is attached.
var ErrNoSimulator = errors.New("no simulator attached")

// BuildStatus returns a status snapshot for the detector.
func BuildStatus(d *calldetect.Detector) StatusResponse {
	focus := d.AudioFocusState()
	return StatusResponse{
		Type:                "status",
		GsmListening:        d.IsActive(),
		AudioFocusListening: d.IsAudioFocusActive(),
		CallState:           d.CallState().String(),
		FocusState:          focus.State.String(),
		HasAudioFocus:       focus.HasAudioFocus,
	}
}

// CommandHandler processes WebSocket commands against a detector.
type CommandHandler struct {
	detector *calldetect.Detector
	phone    *sim.Telephony
	audio    *sim.AudioFocus
}

// NewCommandHandler creates a command handler for the given detector.
// phone and audio attach simulator controls for sim/* commands; both
// may be nil when the detector runs against real sources.
func NewCommandHandler(detector *calldetect.Detector, phone *sim.Telephony, audio *sim.AudioFocus) *CommandHandler {
	return &CommandHandler{
		detector: detector,
		phone:    phone,
		audio:    audio,
	}
}

// Handle processes a WebSocket command and queues responses on send.
// Commands use slash-style format: namespace/action (e.g. "call/start").
func (h *CommandHandler) Handle(cmd Command, send chan<- any) {
	commandsTotal.WithLabelValues(cmd.Type).Inc()

	parts := strings.SplitN(cmd.Type, "/", 2)
	namespace := parts[0]
	action := ""
	if len(parts) > 1 {
		action = parts[1]
	}

	switch namespace {
	case "call":
		h.handleCall(action, cmd, send)
	case "focus":
		h.handleFocus(action, cmd, send)
	case "all":
		h.handleAll(action, cmd, send)
	case "status":
		h.handleStatus(action, cmd, send)
	case "sim":
		h.handleSim(action, cmd, send)
	default:
		logrus.WithFields(logrus.Fields{
			"function": "Handle",
			"type":     cmd.Type,
		}).Warn("Unknown WebSocket command")
		SendError(send, cmd.Type, fmt.Errorf("unknown command %q", cmd.Type))
	}
}

// handleCall routes call/* commands.
func (h *CommandHandler) handleCall(action string, cmd Command, send chan<- any) {
	switch action {
	case "start":
		if err := h.detector.StartListener(); err != nil {
			SendError(send, cmd.Type, err)
			return
		}
		SendSuccess(send, cmd.Type, nil)
	case "stop":
		h.detector.StopListener()
		SendSuccess(send, cmd.Type, nil)
	case "state":
		SendSuccess(send, cmd.Type, CallStateData{
			State:    h.detector.CallState().String(),
			IsActive: h.detector.IsActive(),
		})
	default:
		SendError(send, cmd.Type, fmt.Errorf("unknown call action %q", action))
	}
}

// handleFocus routes focus/* commands.
func (h *CommandHandler) handleFocus(action string, cmd Command, send chan<- any) {
	switch action {
	case "start":
		if err := h.detector.StartAudioFocusListener(); err != nil {
			SendError(send, cmd.Type, err)
			return
		}
		SendSuccess(send, cmd.Type, nil)
	case "stop":
		h.detector.StopAudioFocusListener()
		SendSuccess(send, cmd.Type, nil)
	case "state":
		SendSuccess(send, cmd.Type, h.detector.AudioFocusState())
	default:
		SendError(send, cmd.Type, fmt.Errorf("unknown focus action %q", action))
	}
}

// handleAll routes all/* commands.
func (h *CommandHandler) handleAll(action string, cmd Command, send chan<- any) {
	switch action {
	case "start":
		SendSuccess(send, cmd.Type, h.detector.StartAllListeners())
	case "stop":
		h.detector.StopAllListeners()
		SendSuccess(send, cmd.Type, nil)
	default:
		SendError(send, cmd.Type, fmt.Errorf("unknown all action %q", action))
	}
}

// handleStatus routes status/* commands.
func (h *CommandHandler) handleStatus(action string, cmd Command, send chan<- any) {
	switch action {
	case "get":
		trySend(send, "status", BuildStatus(h.detector))
	default:
		SendError(send, cmd.Type, fmt.Errorf("unknown status action %q", action))
	}
}

// handleSim routes sim/* commands to the attached simulators.
func (h *CommandHandler) handleSim(action string, cmd Command, send chan<- any) {
	switch action {
	case "call":
		if h.phone == nil {
			SendError(send, cmd.Type, ErrNoSimulator)
			return
		}
		HandleCommand(cmd, send, func(req *SimCallRequest) error {
			switch req.Action {
			case "place":
				h.phone.PlaceCall(req.Number)
			case "answer":
				h.phone.AnswerCall()
			case "end":
				h.phone.EndCall()
			}
			return nil
		})
	case "focus":
		if h.audio == nil {
			SendError(send, cmd.Type, ErrNoSimulator)
			return
		}
		HandleCommand(cmd, send, func(req *SimFocusRequest) error {
			switch req.Action {
			case "take":
				h.audio.TakeFocus()
			case "take-transient":
				h.audio.TakeFocusTransient()
			case "duck":
				h.audio.Duck()
			case "return":
				h.audio.ReturnFocus()
			}
			return nil
		})
	default:
		SendError(send, cmd.Type, fmt.Errorf("unknown sim action %q", action))
	}
}
