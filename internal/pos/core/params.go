package core

// Order statuses. The contract is membership in this set; the status log
// keeps the history, so illegal sequences stay auditable rather than being
// rejected here.
const (
	StatusPending       = "pending"
	StatusInPreparation = "in_preparation"
	StatusReady         = "ready"
	StatusDelivered     = "delivered"
	StatusCancelled     = "cancelled"
)

var AllowedStatuses = map[string]bool{
	StatusPending:       true,
	StatusInPreparation: true,
	StatusReady:         true,
	StatusDelivered:     true,
	StatusCancelled:     true,
}

// KitchenQueueStatuses feeds the chef view, oldest first.
var KitchenQueueStatuses = []string{StatusPending, StatusInPreparation}

// ServerQueueStatuses feeds the waiter view, oldest first.
var ServerQueueStatuses = []string{StatusPending, StatusInPreparation, StatusReady}

// Order kinds.
const (
	KindTable    = "table"
	KindTakeout  = "takeout"
	KindDelivery = "delivery"
)

var AllowedKinds = map[string]bool{
	KindTable:    true,
	KindTakeout:  true,
	KindDelivery: true,
}

// Cash movement kinds.
const (
	MovementOpen  = "open"
	MovementSale  = "sale"
	MovementClose = "close"
)

// Cash session statuses.
const (
	SessionOpen   = "open"
	SessionClosed = "closed"
)

// Invoice statuses and payment methods.
const (
	InvoiceIssued = "issued"

	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
)

var AllowedPaymentMethods = map[string]bool{
	PaymentCash:     true,
	PaymentCard:     true,
	PaymentTransfer: true,
}

// Roles form a closed set. HasCapability replaces per-route string matching.
const (
	RoleAdmin   = "admin"
	RoleWaiter  = "waiter"
	RoleKitchen = "kitchen"
	RoleCashier = "cashier"
)

var AllowedRoles = map[string]bool{
	RoleAdmin:   true,
	RoleWaiter:  true,
	RoleKitchen: true,
	RoleCashier: true,
}

// HasCapability reports whether role satisfies the required role. Admin
// satisfies every requirement.
func HasCapability(role, required string) bool {
	if role == RoleAdmin {
		return true
	}
	return role == required
}

// Validation bounds for order input.
const (
	MinLineQuantity = 1
	MaxLineQuantity = 50
	MaxOrderLines   = 30
	MaxNoteLen      = 500
)
