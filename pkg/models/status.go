package models

// Status values shared by the soft-deletable entities.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
	StatusDisabled = "Disabled"
	StatusDeleted  = "Deleted"
)

// User types.
const (
	UserTypeCustomer     = "Customer"
	UserTypeManufacturer = "Manufacturer"
	UserTypeAgent        = "Agent"
	UserTypeAdmin        = "Admin"
)

// Admin roles.
const (
	RoleAdmin      = "Admin"
	RoleSuperAdmin = "SuperAdmin"
)

// Order statuses.
const (
	OrderStatusPending   = "Pending"
	OrderStatusConfirmed = "Confirmed"
	OrderStatusShipped   = "Shipped"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
)

// Payment statuses. Paid is terminal.
const (
	PaymentStatusPaid      = "Paid"
	PaymentStatusUnpaid    = "Unpaid"
	PaymentStatusPending   = "Pending"
	PaymentStatusCancelled = "Cancelled"
)

// ValidPaymentStatus reports whether s is one of the known payment states.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusUnpaid, PaymentStatusPending, PaymentStatusCancelled:
		return true
	}
	return false
}
