package notifications

import (
	"context"

	"github.com/google/uuid"

	"github.com/team-fruitee/fruitee-backend/pkg/enums"
	"github.com/team-fruitee/fruitee-backend/pkg/logger"
)

// Event identifies what happened; payloads carry just enough for a
// downstream channel (mail, chat webhook) to render a message.
type Event string

const (
	EventOrderPlaced             Event = "order.placed"
	EventOrderUpdated            Event = "order.updated"
	EventOrderCanceled           Event = "order.canceled"
	EventGroupOrderStatusChanged Event = "group_order.status_changed"
)

// OrderEvent describes a member-order mutation.
type OrderEvent struct {
	GroupOrderID uuid.UUID
	OrderID      uuid.UUID
	BuyerName    string
}

// StatusEvent describes a group-order lifecycle transition.
type StatusEvent struct {
	GroupOrderID uuid.UUID
	Title        string
	From         enums.GroupOrderStatus
	To           enums.GroupOrderStatus
}

// Notifier receives domain events after the owning transaction commits.
// Implementations must never fail the business operation: errors are
// swallowed and logged by the implementation itself.
type Notifier interface {
	OrderPlaced(ctx context.Context, event OrderEvent)
	OrderUpdated(ctx context.Context, event OrderEvent)
	OrderCanceled(ctx context.Context, event OrderEvent)
	GroupOrderStatusChanged(ctx context.Context, event StatusEvent)
}

type logNotifier struct {
	logg *logger.Logger
}

// NewLogNotifier returns a Notifier that records events to the service log.
func NewLogNotifier(logg *logger.Logger) Notifier {
	return &logNotifier{logg: logg}
}

func (n *logNotifier) OrderPlaced(ctx context.Context, event OrderEvent) {
	n.emit(ctx, EventOrderPlaced, map[string]any{
		"group_order_id": event.GroupOrderID.String(),
		"order_id":       event.OrderID.String(),
		"buyer":          event.BuyerName,
	})
}

func (n *logNotifier) OrderUpdated(ctx context.Context, event OrderEvent) {
	n.emit(ctx, EventOrderUpdated, map[string]any{
		"group_order_id": event.GroupOrderID.String(),
		"order_id":       event.OrderID.String(),
		"buyer":          event.BuyerName,
	})
}

func (n *logNotifier) OrderCanceled(ctx context.Context, event OrderEvent) {
	n.emit(ctx, EventOrderCanceled, map[string]any{
		"group_order_id": event.GroupOrderID.String(),
		"order_id":       event.OrderID.String(),
		"buyer":          event.BuyerName,
	})
}

func (n *logNotifier) GroupOrderStatusChanged(ctx context.Context, event StatusEvent) {
	n.emit(ctx, EventGroupOrderStatusChanged, map[string]any{
		"group_order_id": event.GroupOrderID.String(),
		"title":          event.Title,
		"from":           event.From.String(),
		"to":             event.To.String(),
	})
}

func (n *logNotifier) emit(ctx context.Context, event Event, fields map[string]any) {
	if n.logg == nil {
		return
	}
	fields["event"] = string(event)
	n.logg.Info(n.logg.WithFields(ctx, fields), "notification emitted")
}
