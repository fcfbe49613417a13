package sales

import (
	"context"

	"github.com/curvemint/curved/internal/rpc/handlers"
	"github.com/curvemint/curved/internal/storage/eventdb"
)

// EventsHandler handles the "sale_events" RPC method: recorded event
// history, optionally filtered by sale.
type EventsHandler struct{}

// NewEventsHandler creates a new sale_events handler.
func NewEventsHandler() *EventsHandler {
	return &EventsHandler{}
}

// Name returns the method name.
func (h *EventsHandler) Name() string {
	return "sale_events"
}

const defaultEventLimit = 50

// Handle processes the sale_events request.
func (h *EventsHandler) Handle(ctx context.Context, params map[string]interface{}, services *handlers.Services) (interface{}, error) {
	if services.Events == nil {
		return nil, handlers.NewError(handlers.CodeNotSupported, "event recording is not configured")
	}

	var events []eventdb.Event
	var err error

	if raw, _ := handlers.OptionalStringParam(params, "sale_id"); raw != "" {
		id, herr := handlers.SaleIDParam(params, "sale_id")
		if herr != nil {
			return nil, herr
		}
		events, err = services.Events.BySale(ctx, id)
	} else {
		limit := defaultEventLimit
		if _, ok := params["limit"]; ok {
			n, herr := handlers.UintParam(params, "limit")
			if herr != nil {
				return nil, herr
			}
			limit = int(n)
		}
		events, err = services.Events.Recent(ctx, limit)
	}
	if err != nil {
		return nil, handlers.NewError(handlers.CodeInternal, "%v", err)
	}

	out := make([]map[string]interface{}, 0, len(events))
	for _, e := range events {
		entry := map[string]interface{}{
			"kind":       e.Kind,
			"created_at": e.CreatedAt,
		}
		if e.SaleID != "" {
			entry["sale_id"] = e.SaleID
		}
		if e.Account != "" {
			entry["account"] = e.Account
		}
		if e.Amount != "" {
			entry["amount"] = e.Amount
		}
		if e.Kind == eventdb.KindFeeChanged {
			entry["fee_bps"] = e.FeeBps
		}
		out = append(out, entry)
	}

	return map[string]interface{}{
		"events": out,
	}, nil
}

// RequiresAdmin returns false: event history is public.
func (h *EventsHandler) RequiresAdmin() bool {
	return false
}

func init() {
	handlers.MustRegister(NewEventsHandler())
}
