package grouporders

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/team-fruitee/fruitee-backend/internal/notifications"
	"github.com/team-fruitee/fruitee-backend/pkg/db/models"
	"github.com/team-fruitee/fruitee-backend/pkg/enums"
	pkgerrors "github.com/team-fruitee/fruitee-backend/pkg/errors"
	"github.com/team-fruitee/fruitee-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// openListCache is the read-through cache surface for the member-facing
// open listing. Satisfied by *redis.Client; a nil cache disables caching.
type openListCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CacheKey(parts ...string) string
}

// Service drives the group-order lifecycle on the coordinator side and the
// open listing on the member side.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.GroupOrder, error)
	Edit(ctx context.Context, groupOrderID uuid.UUID, input EditInput) error
	Delete(ctx context.Context, groupOrderID uuid.UUID) error
	ChangeStatus(ctx context.Context, groupOrderID uuid.UUID, target enums.GroupOrderStatus) error
	List(ctx context.Context) ([]Summary, error)
	GetDetail(ctx context.Context, groupOrderID uuid.UUID) (*models.GroupOrder, error)
	ListOpen(ctx context.Context) ([]OpenGroupOrder, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	notifier notifications.Notifier
	cache    openListCache
	cacheTTL time.Duration
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds a group-order service. The cache is optional; passing a
// nil cache serves the open listing straight from the database.
func NewService(repo Repository, tx txRunner, notifier notifications.Notifier, cache openListCache, cacheTTL time.Duration, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("group orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		notifier: notifier,
		cache:    cache,
		cacheTTL: cacheTTL,
		logg:     logg,
		now:      time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.GroupOrder, error) {
	if input.ProducerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "producer id required")
	}
	if input.CreatedBy == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if len(strings.TrimSpace(input.Title)) < 2 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title must be at least 2 characters")
	}
	if err := validateDates(input.OpenDate, input.CloseDate, input.DeliveryDate); err != nil {
		return nil, err
	}
	status := input.Status
	if status == "" {
		status = enums.GroupOrderStatusDraft
	}
	if status != enums.GroupOrderStatusDraft && status != enums.GroupOrderStatusOpen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "initial status must be DRAFT or OPEN")
	}
	if len(input.Products) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one product required")
	}
	productIDs, err := collectProductIDs(input.Products)
	if err != nil {
		return nil, err
	}
	if err := validateOverrides(input.Products); err != nil {
		return nil, err
	}
	if input.MinOrderAmount != nil && !input.MinOrderAmount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum order amount must be greater than zero")
	}
	if input.MinOrderQuantity != nil && *input.MinOrderQuantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum order quantity must be greater than zero")
	}

	order := &models.GroupOrder{
		ProducerID:       input.ProducerID,
		Title:            strings.TrimSpace(input.Title),
		OpenDate:         input.OpenDate,
		CloseDate:        input.CloseDate,
		DeliveryDate:     input.DeliveryDate,
		Status:           status,
		MinOrderAmount:   input.MinOrderAmount,
		MinOrderQuantity: input.MinOrderQuantity,
		TransportUserID:  input.TransportUserID,
		Notes:            input.Notes,
		CreatedBy:        input.CreatedBy,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		known, err := repo.FindActiveProducerProducts(ctx, input.ProducerID, productIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load producer products")
		}
		if len(known) != len(productIDs) {
			return pkgerrors.New(pkgerrors.CodeValidation, "products must belong to the producer's active catalogue")
		}

		if _, err := repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create group order")
		}

		rows := make([]models.GroupOrderProduct, 0, len(input.Products))
		for _, selection := range input.Products {
			rows = append(rows, models.GroupOrderProduct{
				GroupOrderID:  order.ID,
				ProductID:     selection.ProductID,
				PriceOverride: selection.PriceOverride,
			})
		}
		if err := repo.AddProducts(ctx, rows); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach products")
		}
		if len(input.DeliveryPointIDs) > 0 {
			if err := repo.ReplaceDeliveryPoints(ctx, order.ID, input.DeliveryPointIDs); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach delivery points")
			}
		}
		if len(input.PaymentReferentIDs) > 0 {
			if err := repo.ReplacePaymentReferents(ctx, order.ID, input.PaymentReferentIDs); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach payment referents")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateOpenList(ctx)
	return order, nil
}

func (s *service) Edit(ctx context.Context, groupOrderID uuid.UUID, input EditInput) error {
	if groupOrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "group order id required")
	}
	if input.Title != nil && len(strings.TrimSpace(*input.Title)) < 2 {
		return pkgerrors.New(pkgerrors.CodeValidation, "title must be at least 2 characters")
	}
	if input.Products != nil {
		if len(input.Products) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "at least one product required")
		}
		if _, err := collectProductIDs(input.Products); err != nil {
			return err
		}
		if err := validateOverrides(input.Products); err != nil {
			return err
		}
	}
	if input.MinOrderAmount != nil && !input.MinOrderAmount.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "minimum order amount must be greater than zero")
	}
	if input.MinOrderQuantity != nil && *input.MinOrderQuantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "minimum order quantity must be greater than zero")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := findGroupOrder(ctx, repo, groupOrderID)
		if err != nil {
			return err
		}
		if order.Status != enums.GroupOrderStatusDraft && order.Status != enums.GroupOrderStatusOpen {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "group order can no longer be edited")
		}

		openDate := order.OpenDate
		closeDate := order.CloseDate
		deliveryDate := order.DeliveryDate
		if input.OpenDate != nil {
			openDate = *input.OpenDate
		}
		if input.CloseDate != nil {
			closeDate = *input.CloseDate
		}
		if input.DeliveryDate != nil {
			deliveryDate = *input.DeliveryDate
		}
		if err := validateDates(openDate, closeDate, deliveryDate); err != nil {
			return err
		}

		if input.Products != nil {
			if err := s.applyProductDiff(ctx, repo, order, input.Products); err != nil {
				return err
			}
		}
		if input.DeliveryPointIDs != nil {
			if err := repo.ReplaceDeliveryPoints(ctx, order.ID, *input.DeliveryPointIDs); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace delivery points")
			}
		}
		if input.PaymentReferentIDs != nil {
			if err := repo.ReplacePaymentReferents(ctx, order.ID, *input.PaymentReferentIDs); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace payment referents")
			}
		}

		updates := map[string]any{
			"open_date":     openDate,
			"close_date":    closeDate,
			"delivery_date": deliveryDate,
		}
		if input.Title != nil {
			updates["title"] = strings.TrimSpace(*input.Title)
		}
		if input.MinOrderAmount != nil {
			updates["min_order_amount"] = *input.MinOrderAmount
		}
		if input.MinOrderQuantity != nil {
			updates["min_order_quantity"] = *input.MinOrderQuantity
		}
		if input.TransportUserID != nil {
			updates["transport_user_id"] = *input.TransportUserID
		}
		if input.Notes != nil {
			updates["notes"] = *input.Notes
		}
		if err := repo.UpdateFields(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update group order")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateOpenList(ctx)
	return nil
}

// applyProductDiff reconciles the stored product set with the desired one.
// Removing a product that members already ordered would orphan their lines,
// so any such removal rejects the whole edit.
func (s *service) applyProductDiff(ctx context.Context, repo Repository, order *models.GroupOrder, desired []ProductSelection) error {
	existing, err := repo.ListProducts(ctx, order.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load group order products")
	}

	desiredByID := make(map[uuid.UUID]ProductSelection, len(desired))
	for _, selection := range desired {
		desiredByID[selection.ProductID] = selection
	}
	existingByID := make(map[uuid.UUID]models.GroupOrderProduct, len(existing))
	for _, row := range existing {
		existingByID[row.ProductID] = row
	}

	var removed []uuid.UUID
	for productID := range existingByID {
		if _, keep := desiredByID[productID]; !keep {
			removed = append(removed, productID)
		}
	}
	if len(removed) > 0 {
		lines, err := repo.CountOrderLinesForProducts(ctx, order.ID, removed)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count ordered lines")
		}
		if lines > 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "products already ordered cannot be removed")
		}
		if err := repo.RemoveProducts(ctx, order.ID, removed); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove products")
		}
	}

	var added []models.GroupOrderProduct
	var addedIDs []uuid.UUID
	for productID, selection := range desiredByID {
		row, exists := existingByID[productID]
		if !exists {
			added = append(added, models.GroupOrderProduct{
				GroupOrderID:  order.ID,
				ProductID:     productID,
				PriceOverride: selection.PriceOverride,
			})
			addedIDs = append(addedIDs, productID)
			continue
		}
		if !overridesEqual(row.PriceOverride, selection.PriceOverride) {
			if err := repo.UpdateProductOverride(ctx, row.ID, selection.PriceOverride); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update price override")
			}
		}
	}
	if len(added) > 0 {
		known, err := repo.FindActiveProducerProducts(ctx, order.ProducerID, addedIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load producer products")
		}
		if len(known) != len(addedIDs) {
			return pkgerrors.New(pkgerrors.CodeValidation, "products must belong to the producer's active catalogue")
		}
		if err := repo.AddProducts(ctx, added); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add products")
		}
	}
	return nil
}

func (s *service) Delete(ctx context.Context, groupOrderID uuid.UUID) error {
	if groupOrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "group order id required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := findGroupOrder(ctx, repo, groupOrderID); err != nil {
			return err
		}
		count, err := repo.CountMemberOrders(ctx, groupOrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count member orders")
		}
		if count > 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "group order has member orders")
		}
		if err := repo.Delete(ctx, groupOrderID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete group order")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateOpenList(ctx)
	return nil
}

func (s *service) ChangeStatus(ctx context.Context, groupOrderID uuid.UUID, target enums.GroupOrderStatus) error {
	if groupOrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "group order id required")
	}
	if !target.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid group order status")
	}

	var event *notifications.StatusEvent
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := findGroupOrder(ctx, repo, groupOrderID)
		if err != nil {
			return err
		}
		if order.Status == target {
			return nil
		}
		if !order.Status.CanTransitionTo(target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move group order from %s to %s", order.Status, target))
		}
		if err := repo.UpdateStatus(ctx, groupOrderID, target); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update group order status")
		}
		event = &notifications.StatusEvent{
			GroupOrderID: order.ID,
			Title:        order.Title,
			From:         order.Status,
			To:           target,
		}
		return nil
	})
	if err != nil {
		return err
	}

	if event != nil {
		s.notifier.GroupOrderStatusChanged(ctx, *event)
	}
	s.invalidateOpenList(ctx)
	return nil
}

func (s *service) List(ctx context.Context) ([]Summary, error) {
	summaries, err := s.repo.ListSummaries(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list group orders")
	}
	return summaries, nil
}

func (s *service) GetDetail(ctx context.Context, groupOrderID uuid.UUID) (*models.GroupOrder, error) {
	if groupOrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "group order id required")
	}
	order, err := s.repo.FindDetail(ctx, groupOrderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "group order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load group order")
	}
	return order, nil
}

func (s *service) ListOpen(ctx context.Context) ([]OpenGroupOrder, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, s.openListKey())
		if err == nil {
			var listing []OpenGroupOrder
			if err := json.Unmarshal([]byte(cached), &listing); err == nil {
				return listing, nil
			}
		}
	}

	orders, err := s.repo.ListOpen(ctx, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list open group orders")
	}
	listing := make([]OpenGroupOrder, 0, len(orders))
	for _, order := range orders {
		listing = append(listing, toOpenGroupOrder(order))
	}

	if s.cache != nil {
		if payload, err := json.Marshal(listing); err == nil {
			if err := s.cache.Set(ctx, s.openListKey(), payload, s.cacheTTL); err != nil && s.logg != nil {
				s.logg.Warn(ctx, "open group order cache write failed")
			}
		}
	}
	return listing, nil
}

func (s *service) openListKey() string {
	return s.cache.CacheKey("group_orders", "open")
}

func (s *service) invalidateOpenList(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.openListKey()); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "open group order cache invalidation failed")
	}
}

func toOpenGroupOrder(order models.GroupOrder) OpenGroupOrder {
	products := make([]OpenProduct, 0, len(order.Products))
	for _, row := range order.Products {
		product := OpenProduct{
			ProductID:      row.ProductID,
			EffectivePrice: row.EffectivePrice(),
		}
		if row.Product != nil {
			product.Name = row.Product.Name
			product.UnitType = row.Product.UnitType
			product.UnitQuantity = row.Product.UnitQuantity
		}
		products = append(products, product)
	}
	pointIDs := make([]uuid.UUID, 0, len(order.DeliveryPoints))
	for _, point := range order.DeliveryPoints {
		pointIDs = append(pointIDs, point.ID)
	}
	producerName := ""
	if order.Producer != nil {
		producerName = order.Producer.Name
	}
	return OpenGroupOrder{
		ID:               order.ID,
		Title:            order.Title,
		ProducerName:     producerName,
		CloseDate:        order.CloseDate,
		DeliveryDate:     order.DeliveryDate,
		MinOrderAmount:   order.MinOrderAmount,
		MinOrderQuantity: order.MinOrderQuantity,
		Notes:            order.Notes,
		Products:         products,
		DeliveryPointIDs: pointIDs,
	}
}

func findGroupOrder(ctx context.Context, repo Repository, groupOrderID uuid.UUID) (*models.GroupOrder, error) {
	order, err := repo.FindByID(ctx, groupOrderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "group order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load group order")
	}
	return order, nil
}

func validateDates(openDate, closeDate, deliveryDate time.Time) error {
	if openDate.IsZero() || closeDate.IsZero() || deliveryDate.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "open, close and delivery dates required")
	}
	if !openDate.Before(closeDate) {
		return pkgerrors.New(pkgerrors.CodeValidation, "open date must be before close date")
	}
	if closeDate.After(deliveryDate) {
		return pkgerrors.New(pkgerrors.CodeValidation, "close date must not be after delivery date")
	}
	return nil
}

func collectProductIDs(selections []ProductSelection) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(selections))
	ids := make([]uuid.UUID, 0, len(selections))
	for _, selection := range selections {
		if selection.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
		}
		if _, dup := seen[selection.ProductID]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate product in selection")
		}
		seen[selection.ProductID] = struct{}{}
		ids = append(ids, selection.ProductID)
	}
	return ids, nil
}

func validateOverrides(selections []ProductSelection) error {
	for _, selection := range selections {
		if selection.PriceOverride != nil && !selection.PriceOverride.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeValidation, "price override must be greater than zero")
		}
	}
	return nil
}

func overridesEqual(a, b *decimal.Decimal) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.Equal(*b)
}
