package core

import (
	"context"
	"time"

	"restopos/internal/pos/domain/models"
)

// Notifier is the publish side of the realtime layer. Publish is called after
// commit and is never allowed to fail a request.
type Notifier interface {
	Publish(ctx context.Context, event string, payload any) error
	Close() error
}

// Mailer delivers password-reset codes. Transport is out of scope, so the
// default implementation only logs.
type Mailer interface {
	SendResetCode(ctx context.Context, email, code string) error
}

// Event names carried through the notifier.
const (
	EventOrderCreated  = "order.created"
	EventOrderUpdated  = "order.updated"
	EventSessionOpened = "cash.session_opened"
	EventSessionClosed = "cash.session_closed"
	EventEventCreated  = "event.created"
	EventEventDeleted  = "event.deleted"
)

type OrderLineParams struct {
	ItemID    int64
	Quantity  int
	UnitPrice float64
}

type CreateOrderParams struct {
	CustomerID *int64
	StaffID    int64
	Kind       string
	Note       string
	Lines      []OrderLineParams
}

type ListOrdersFilter struct {
	Statuses  []string
	Ascending bool
}

type RecordSaleParams struct {
	SessionID     int64
	Amount        float64
	Tendered      float64
	Change        float64
	Description   string
	OrderID       *int64
	PaymentMethod string
	TaxRate       float64
	WithInvoice   bool
}

type OrderRepo interface {
	Create(ctx context.Context, p CreateOrderParams, total float64) (models.OrderWithLines, error)
	SetStatus(ctx context.Context, id int64, status string, changedBy int64) (models.OrderWithLines, error)
	GetWithLines(ctx context.Context, id int64) (models.OrderWithLines, error)
	List(ctx context.Context, f ListOrdersFilter) ([]models.Order, error)
}

type CashRepo interface {
	Open(ctx context.Context, openingFloat float64, openedBy int64) (models.CashSession, error)
	RecordSale(ctx context.Context, p RecordSaleParams) (models.CashMovement, *models.Invoice, error)
	Close(ctx context.Context, sessionID *int64) (models.CashSessionClose, error)
	OpenMovements(ctx context.Context) ([]models.CashMovement, error)
}

type InvoiceRepo interface {
	Issue(ctx context.Context, orderID int64, taxRate float64, paymentMethod string) (models.InvoiceWithLines, error)
	Get(ctx context.Context, id int64) (models.InvoiceWithLines, error)
	List(ctx context.Context) ([]models.Invoice, error)
}

type UserRepo interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id int64) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	Create(ctx context.Context, u models.User) (models.User, error)
	Update(ctx context.Context, u models.User) (models.User, error)
	Delete(ctx context.Context, id int64) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

type ResetCodeRepo interface {
	Store(ctx context.Context, userID int64, code string, expiresAt time.Time) error
	Consume(ctx context.Context, code string, now time.Time) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type CustomerRepo interface {
	List(ctx context.Context) ([]models.Customer, error)
	Get(ctx context.Context, id int64) (models.Customer, error)
	Create(ctx context.Context, c models.Customer) (models.Customer, error)
	Update(ctx context.Context, c models.Customer) (models.Customer, error)
	Delete(ctx context.Context, id int64) error
}

type MenuRepo interface {
	ListCategories(ctx context.Context) ([]models.MenuCategory, error)
	CreateCategory(ctx context.Context, c models.MenuCategory) (models.MenuCategory, error)
	UpdateCategory(ctx context.Context, c models.MenuCategory) (models.MenuCategory, error)
	DeleteCategory(ctx context.Context, id int64) error

	ListItems(ctx context.Context) ([]models.MenuItem, error)
	GetItem(ctx context.Context, id int64) (models.MenuItem, error)
	CreateItem(ctx context.Context, i models.MenuItem) (models.MenuItem, error)
	UpdateItem(ctx context.Context, i models.MenuItem) (models.MenuItem, error)
	DeleteItem(ctx context.Context, id int64) error

	ListIngredients(ctx context.Context, itemID int64) ([]models.MenuItemIngredient, error)
	AddIngredient(ctx context.Context, ing models.MenuItemIngredient) (models.MenuItemIngredient, error)
	RemoveIngredient(ctx context.Context, id int64) error
}

type SupplyRepo interface {
	List(ctx context.Context) ([]models.Supply, error)
	Create(ctx context.Context, s models.Supply) (models.Supply, error)
	Update(ctx context.Context, s models.Supply) (models.Supply, error)
	Delete(ctx context.Context, id int64) error
	RecordMovement(ctx context.Context, m models.SupplyMovement) (models.SupplyMovement, error)
	Stock(ctx context.Context) ([]models.SupplyStock, error)
}

type EventRepo interface {
	List(ctx context.Context) ([]models.Event, error)
	Create(ctx context.Context, e models.Event) (models.Event, error)
	Delete(ctx context.Context, id int64) (models.Event, error)
}

type DashboardRepo interface {
	Stats(ctx context.Context, since time.Time) (models.DashboardStats, error)
	SalesChart(ctx context.Context, since time.Time, bucket string) ([]models.SalesPoint, error)
	OrdersChart(ctx context.Context, since time.Time) ([]models.StatusCount, error)
	ProductsChart(ctx context.Context, since time.Time) ([]models.ProductSales, error)
	PaymentsChart(ctx context.Context, since time.Time) ([]models.PaymentSlice, error)
	RecentOrders(ctx context.Context) ([]models.RecentOrder, error)
}
