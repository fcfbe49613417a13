package server

import (
	"context"

	"github.com/curvemint/curved/internal/rpc/handlers"
)

// InfoHandler handles the "server_info" RPC method.
type InfoHandler struct{}

// NewInfoHandler creates a new server_info handler.
func NewInfoHandler() *InfoHandler {
	return &InfoHandler{}
}

// Name returns the method name.
func (h *InfoHandler) Name() string {
	return "server_info"
}

// Handle processes the server_info request.
func (h *InfoHandler) Handle(ctx context.Context, params map[string]interface{}, services *handlers.Services) (interface{}, error) {
	info := map[string]interface{}{
		"version":         services.Version,
		"event_recording": services.Events != nil,
	}

	if bps, err := services.Sales.CurrentFee(); err == nil {
		info["fee_bps"] = bps
	}

	return map[string]interface{}{
		"info": info,
	}, nil
}

// RequiresAdmin returns false as server_info is a public method.
func (h *InfoHandler) RequiresAdmin() bool {
	return false
}

func init() {
	handlers.MustRegister(NewInfoHandler())
}
