package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/team-fruitee/fruitee-backend/pkg/db/models"
	"github.com/team-fruitee/fruitee-backend/pkg/enums"
	pkgerrors "github.com/team-fruitee/fruitee-backend/pkg/errors"
	"github.com/team-fruitee/fruitee-backend/pkg/pricing"
)

// ExportLine is one snapshot line inside a member block.
type ExportLine struct {
	ProductName string          `json:"product_name"`
	UnitType    enums.UnitType  `json:"unit_type"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// MemberBlock groups one buyer's lines for the recap sheet.
type MemberBlock struct {
	OrderID       uuid.UUID           `json:"order_id"`
	BuyerName     string              `json:"buyer_name"`
	Commune       string              `json:"commune,omitempty"`
	DeliveryPoint string              `json:"delivery_point,omitempty"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	Lines         []ExportLine        `json:"lines"`
	Total         decimal.Decimal     `json:"total"`
}

// DemandRow is the aggregated quantity of one product across all orders,
// what the producer actually has to prepare.
type DemandRow struct {
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product_name"`
	UnitType      enums.UnitType  `json:"unit_type"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Amount        decimal.Decimal `json:"amount"`
}

// Export is the full dataset the external PDF/Excel generator consumes.
type Export struct {
	GroupOrderID  uuid.UUID              `json:"group_order_id"`
	Title         string                 `json:"title"`
	ProducerName  string                 `json:"producer_name"`
	Status        enums.GroupOrderStatus `json:"status"`
	DeliveryDate  time.Time              `json:"delivery_date"`
	Members       []MemberBlock          `json:"members"`
	ProductDemand []DemandRow            `json:"product_demand"`
	GrandTotal    decimal.Decimal        `json:"grand_total"`
}

// Repository loads the fully hydrated group order the export is built from.
type Repository interface {
	FindGroupOrderDetail(ctx context.Context, groupOrderID uuid.UUID) (*models.GroupOrder, error)
}

// Service assembles export and producer-demand views. Rendering to PDF or
// Excel happens outside this API.
type Service interface {
	GroupOrderExport(ctx context.Context, groupOrderID uuid.UUID) (*Export, error)
	ProducerDemand(ctx context.Context, groupOrderID uuid.UUID) ([]DemandRow, error)
}

type service struct {
	repo Repository
}

// NewService builds a reporting service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reporting repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GroupOrderExport(ctx context.Context, groupOrderID uuid.UUID) (*Export, error) {
	groupOrder, err := s.loadDetail(ctx, groupOrderID)
	if err != nil {
		return nil, err
	}

	export := &Export{
		GroupOrderID: groupOrder.ID,
		Title:        groupOrder.Title,
		Status:       groupOrder.Status,
		DeliveryDate: groupOrder.DeliveryDate,
		GrandTotal:   decimal.Zero,
	}
	if groupOrder.Producer != nil {
		export.ProducerName = groupOrder.Producer.Name
	}

	for _, order := range groupOrder.MemberOrders {
		block := MemberBlock{
			OrderID:       order.ID,
			BuyerName:     order.BuyerDisplayName(),
			PaymentStatus: order.PaymentStatus,
			Total:         order.TotalAmount,
		}
		if order.User != nil && order.User.Commune != nil {
			block.Commune = *order.User.Commune
		}
		if order.DeliveryPoint != nil {
			block.DeliveryPoint = order.DeliveryPoint.Name
		}
		for _, line := range order.OrderLines {
			exportLine := ExportLine{
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				LineTotal: line.LineTotal,
			}
			if line.GroupOrderProduct != nil && line.GroupOrderProduct.Product != nil {
				exportLine.ProductName = line.GroupOrderProduct.Product.Name
				exportLine.UnitType = line.GroupOrderProduct.Product.UnitType
			}
			block.Lines = append(block.Lines, exportLine)
		}
		export.Members = append(export.Members, block)
		export.GrandTotal = export.GrandTotal.Add(order.TotalAmount)
	}
	export.ProductDemand = aggregateDemand(groupOrder)
	return export, nil
}

func (s *service) ProducerDemand(ctx context.Context, groupOrderID uuid.UUID) ([]DemandRow, error) {
	groupOrder, err := s.loadDetail(ctx, groupOrderID)
	if err != nil {
		return nil, err
	}
	return aggregateDemand(groupOrder), nil
}

func (s *service) loadDetail(ctx context.Context, groupOrderID uuid.UUID) (*models.GroupOrder, error) {
	if groupOrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "group order id required")
	}
	groupOrder, err := s.repo.FindGroupOrderDetail(ctx, groupOrderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "group order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load group order")
	}
	return groupOrder, nil
}

// aggregateDemand sums ordered quantities per product, keeping the group
// order's product ordering so the producer sheet is stable.
func aggregateDemand(groupOrder *models.GroupOrder) []DemandRow {
	totals := make(map[uuid.UUID]decimal.Decimal, len(groupOrder.Products))
	for _, order := range groupOrder.MemberOrders {
		for _, line := range order.OrderLines {
			if line.GroupOrderProduct == nil {
				continue
			}
			productID := line.GroupOrderProduct.ProductID
			totals[productID] = totals[productID].Add(line.Quantity)
		}
	}

	rows := make([]DemandRow, 0, len(groupOrder.Products))
	for _, row := range groupOrder.Products {
		quantity := totals[row.ProductID]
		unitPrice := row.EffectivePrice()
		demand := DemandRow{
			ProductID:     row.ProductID,
			TotalQuantity: quantity,
			UnitPrice:     unitPrice,
			Amount:        pricing.LineTotal(quantity, unitPrice),
		}
		if row.Product != nil {
			demand.ProductName = row.Product.Name
			demand.UnitType = row.Product.UnitType
		}
		rows = append(rows, demand)
	}
	return rows
}
