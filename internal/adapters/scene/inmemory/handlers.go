package inmemory

import "fmt"

// HandlerKind names a kind of block event handler.
type HandlerKind string

const (
	HandlerGameStarted      HandlerKind = "game_started"
	HandlerMessageReceived  HandlerKind = "message_received"
	HandlerFlowchartEnabled HandlerKind = "flowchart_enabled"
	HandlerSaveDataLoaded   HandlerKind = "save_data_loaded"
)

// Handler is a block event handler. Only game_started fires once at startup.
type Handler struct {
	Kind    HandlerKind
	Message string
}

// IsStartupTrigger implements scene.EventHandler.
func (h *Handler) IsStartupTrigger() bool {
	return h != nil && h.Kind == HandlerGameStarted
}

// ParseHandler builds a handler from its kind name. An empty kind means no
// handler.
func ParseHandler(kind, message string) (*Handler, error) {
	switch HandlerKind(kind) {
	case "":
		return nil, nil
	case HandlerGameStarted, HandlerMessageReceived, HandlerFlowchartEnabled, HandlerSaveDataLoaded:
		return &Handler{Kind: HandlerKind(kind), Message: message}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownHandler, kind)
	}
}
