package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/team-fruitee/fruitee-backend/pkg/db/models"
	"github.com/team-fruitee/fruitee-backend/pkg/enums"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'MEMBER',
  status TEXT NOT NULL DEFAULT 'PENDING',
  commune TEXT,
  phone TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS producers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  location TEXT,
  contact_email TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  producer_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  unit_type TEXT NOT NULL,
  unit_quantity NUMERIC NOT NULL,
  price_producer NUMERIC NOT NULL,
  price_with_transport NUMERIC NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS delivery_points (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  address TEXT NOT NULL,
  commune TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS group_orders (
  id TEXT PRIMARY KEY,
  producer_id TEXT NOT NULL,
  title TEXT NOT NULL,
  open_date DATETIME NOT NULL,
  close_date DATETIME NOT NULL,
  delivery_date DATETIME NOT NULL,
  status TEXT NOT NULL DEFAULT 'DRAFT',
  min_order_amount NUMERIC,
  min_order_quantity INTEGER,
  transport_user_id TEXT,
  notes TEXT,
  created_by TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS group_order_products (
  id TEXT PRIMARY KEY,
  group_order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  price_override NUMERIC,
  created_at DATETIME,
  UNIQUE (group_order_id, product_id)
);`,
		`CREATE TABLE IF NOT EXISTS member_orders (
  id TEXT PRIMARY KEY,
  group_order_id TEXT NOT NULL,
  user_id TEXT,
  proxy_buyer_name TEXT,
  placed_by_coordinator_id TEXT,
  delivery_point_id TEXT NOT NULL,
  notes TEXT,
  payment_status TEXT NOT NULL DEFAULT 'NOT_PAID',
  total_amount NUMERIC NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS member_orders_group_order_id_user_id_key
  ON member_orders (group_order_id, user_id) WHERE user_id IS NOT NULL;`,
		`CREATE TABLE IF NOT EXISTS order_lines (
  id TEXT PRIMARY KEY,
  member_order_id TEXT NOT NULL,
  group_order_product_id TEXT NOT NULL,
  quantity NUMERIC NOT NULL,
  unit_price NUMERIC NOT NULL,
  line_total NUMERIC NOT NULL,
  created_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedGroupOrder(t *testing.T, db *gorm.DB) (*models.GroupOrder, *models.GroupOrderProduct, *models.DeliveryPoint) {
	t.Helper()

	producer := &models.Producer{ID: uuid.New(), Name: "Ferme du Verger", IsActive: true}
	require.NoError(t, db.Create(producer).Error)

	product := &models.Product{
		ID:                 uuid.New(),
		ProducerID:         producer.ID,
		Name:               "Pommes Gala",
		UnitType:           enums.UnitTypeCrate,
		UnitQuantity:       decimal.RequireFromString("5"),
		PriceProducer:      decimal.RequireFromString("12.00"),
		PriceWithTransport: decimal.RequireFromString("15.50"),
		IsActive:           true,
	}
	require.NoError(t, db.Create(product).Error)

	point := &models.DeliveryPoint{
		ID:       uuid.New(),
		Name:     "Halle du marché",
		Address:  "3 rue des Tilleuls",
		Commune:  "Saint-Julien",
		IsActive: true,
	}
	require.NoError(t, db.Create(point).Error)

	now := time.Now().UTC()
	groupOrder := &models.GroupOrder{
		ID:           uuid.New(),
		ProducerID:   producer.ID,
		Title:        "Pommes de mars",
		OpenDate:     now.Add(-24 * time.Hour),
		CloseDate:    now.Add(24 * time.Hour),
		DeliveryDate: now.Add(72 * time.Hour),
		Status:       enums.GroupOrderStatusOpen,
		CreatedBy:    uuid.New(),
	}
	require.NoError(t, db.Create(groupOrder).Error)

	row := &models.GroupOrderProduct{
		ID:           uuid.New(),
		GroupOrderID: groupOrder.ID,
		ProductID:    product.ID,
	}
	require.NoError(t, db.Create(row).Error)

	return groupOrder, row, point
}

func TestRepositoryPlaceRoundTrip(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	groupOrder, row, point := seedGroupOrder(t, db)

	user := &models.User{ID: uuid.New(), Name: "Alice Martin", Email: "alice@example.org"}
	require.NoError(t, db.Create(user).Error)

	userID := user.ID
	order := &models.MemberOrder{
		ID:              uuid.New(),
		GroupOrderID:    groupOrder.ID,
		UserID:          &userID,
		DeliveryPointID: point.ID,
		PaymentStatus:   enums.PaymentStatusNotPaid,
		TotalAmount:     decimal.RequireFromString("31.00"),
	}
	_, err := repo.CreateMemberOrder(ctx, order)
	require.NoError(t, err)

	require.NoError(t, repo.CreateOrderLines(ctx, []models.OrderLine{
		{
			ID:                  uuid.New(),
			MemberOrderID:       order.ID,
			GroupOrderProductID: row.ID,
			Quantity:            decimal.RequireFromString("2"),
			UnitPrice:           decimal.RequireFromString("15.50"),
			LineTotal:           decimal.RequireFromString("31.00"),
		},
	}))

	loaded, err := repo.FindMemberOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, loaded.OrderLines, 1)
	assert.True(t, loaded.TotalAmount.Equal(decimal.RequireFromString("31.00")))
	assert.True(t, loaded.OrderLines[0].UnitPrice.Equal(decimal.RequireFromString("15.50")))
	assert.Equal(t, "Alice Martin", loaded.BuyerDisplayName())
	require.NotNil(t, loaded.OrderLines[0].GroupOrderProduct)
	assert.Equal(t, "Pommes Gala", loaded.OrderLines[0].GroupOrderProduct.Product.Name)
}

func TestRepositoryUniqueIndexBlocksDuplicates(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	groupOrder, _, point := seedGroupOrder(t, db)
	userID := uuid.New()

	first := &models.MemberOrder{
		ID:              uuid.New(),
		GroupOrderID:    groupOrder.ID,
		UserID:          &userID,
		DeliveryPointID: point.ID,
		TotalAmount:     decimal.Zero,
	}
	_, err := repo.CreateMemberOrder(ctx, first)
	require.NoError(t, err)

	duplicate := &models.MemberOrder{
		ID:              uuid.New(),
		GroupOrderID:    groupOrder.ID,
		UserID:          &userID,
		DeliveryPointID: point.ID,
		TotalAmount:     decimal.Zero,
	}
	_, err = repo.CreateMemberOrder(ctx, duplicate)
	assert.Error(t, err)

	exists, err := repo.ExistsForUser(ctx, groupOrder.ID, userID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRepositoryProxyOrdersUnconstrained(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	groupOrder, _, point := seedGroupOrder(t, db)
	coordinatorID := uuid.New()

	for _, name := range []string{"Mme Dupont", "M. Bernard"} {
		buyerName := name
		order := &models.MemberOrder{
			ID:                    uuid.New(),
			GroupOrderID:          groupOrder.ID,
			ProxyBuyerName:        &buyerName,
			PlacedByCoordinatorID: &coordinatorID,
			DeliveryPointID:       point.ID,
			TotalAmount:           decimal.Zero,
		}
		_, err := repo.CreateMemberOrder(ctx, order)
		require.NoError(t, err)
	}
}

func TestRepositoryDeleteRemovesLines(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	groupOrder, row, point := seedGroupOrder(t, db)
	userID := uuid.New()

	order := &models.MemberOrder{
		ID:              uuid.New(),
		GroupOrderID:    groupOrder.ID,
		UserID:          &userID,
		DeliveryPointID: point.ID,
		TotalAmount:     decimal.RequireFromString("15.50"),
	}
	_, err := repo.CreateMemberOrder(ctx, order)
	require.NoError(t, err)
	require.NoError(t, repo.CreateOrderLines(ctx, []models.OrderLine{
		{
			ID:                  uuid.New(),
			MemberOrderID:       order.ID,
			GroupOrderProductID: row.ID,
			Quantity:            decimal.New(1, 0),
			UnitPrice:           decimal.RequireFromString("15.50"),
			LineTotal:           decimal.RequireFromString("15.50"),
		},
	}))

	require.NoError(t, repo.DeleteMemberOrder(ctx, order.ID))

	_, err = repo.FindMemberOrder(ctx, order.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var lineCount int64
	require.NoError(t, db.Model(&models.OrderLine{}).Where("member_order_id = ?", order.ID).Count(&lineCount).Error)
	assert.Zero(t, lineCount)
}

func TestRepositoryListForUserNewestFirst(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	groupOrder, _, point := seedGroupOrder(t, db)
	userID := uuid.New()

	older := &models.MemberOrder{
		ID:              uuid.New(),
		GroupOrderID:    groupOrder.ID,
		UserID:          &userID,
		DeliveryPointID: point.ID,
		TotalAmount:     decimal.Zero,
		CreatedAt:       time.Now().Add(-time.Hour),
	}
	require.NoError(t, db.Create(older).Error)

	// second order for the same user in another campaign
	now := time.Now().UTC()
	second := &models.GroupOrder{
		ID:           uuid.New(),
		ProducerID:   groupOrder.ProducerID,
		Title:        "Oeufs d'avril",
		OpenDate:     now.Add(-time.Hour),
		CloseDate:    now.Add(24 * time.Hour),
		DeliveryDate: now.Add(48 * time.Hour),
		Status:       enums.GroupOrderStatusOpen,
		CreatedBy:    uuid.New(),
	}
	require.NoError(t, db.Create(second).Error)

	newer := &models.MemberOrder{
		ID:              uuid.New(),
		GroupOrderID:    second.ID,
		UserID:          &userID,
		DeliveryPointID: point.ID,
		TotalAmount:     decimal.Zero,
		CreatedAt:       time.Now(),
	}
	require.NoError(t, db.Create(newer).Error)

	listed, err := repo.ListForUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, newer.ID, listed[0].ID)
	assert.Equal(t, older.ID, listed[1].ID)
}
