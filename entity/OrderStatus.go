package entity

// OrderStatus is the coarse order-level rollup, independent of the
// per-unit kitchen/courier statuses.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusAccepted       OrderStatus = "accepted"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

type OrderType string

const (
	OrderTypeQuickSip  OrderType = "quicksip"
	OrderTypeFreshPlan OrderType = "freshplan"
)
