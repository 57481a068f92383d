package entity

import "time"

// Kitchen prep state, chef-facing.
type KitchenStatus string

const (
	KitchenPending  KitchenStatus = "pending"
	KitchenReceived KitchenStatus = "received"
	KitchenDone     KitchenStatus = "done"
)

// Courier delivery state. Delivered and NotDelivered are terminal.
type CourierStatus string

const (
	CourierNotYetPicked CourierStatus = "not_yet_picked"
	CourierPicked       CourierStatus = "picked"
	CourierDelivered    CourierStatus = "delivered"
	CourierNotDelivered CourierStatus = "not_delivered"
)

// Actor roles recorded on cancellation.
const (
	RoleCustomer = "customer"
	RoleChef     = "chef"
	RoleCourier  = "courier"
	RoleAdmin    = "admin"
)

// Fulfillment is the shared per-unit status block. It is embedded in both
// Order (quicksip: the whole order is one unit) and PlanDay (freshplan:
// one unit per day), so the transition logic is written once.
//
// All *At timestamps are assigned server-side at commit time. ReportedAt is
// the client-submitted time, kept as display metadata only.
type Fulfillment struct {
	KitchenStatus KitchenStatus `gorm:"size:20;default:pending" json:"kitchenStatus"`
	ChefID        *uint         `json:"chefId"`
	ReceivedAt    *time.Time    `json:"receivedAt"`
	DoneAt        *time.Time    `json:"doneAt"`

	CourierStatus      CourierStatus `gorm:"size:20;default:not_yet_picked" json:"courierStatus"`
	CourierID          *uint         `json:"courierId"`
	PickedAt           *time.Time    `json:"pickedAt"`
	DeliveredAt        *time.Time    `json:"deliveredAt"`
	NotDeliveredAt     *time.Time    `json:"notDeliveredAt"`
	NotDeliveredReason string        `json:"notDeliveredReason"`
	ReportedAt         *time.Time    `json:"reportedAt"`

	CancelledAt     *time.Time `json:"cancelledAt"`
	CancelReason    string     `json:"cancelReason"`
	CancelledByRole string     `gorm:"size:20" json:"cancelledByRole"`
}

func (f *Fulfillment) Cancelled() bool {
	return f.CancelledAt != nil
}

// Terminal reports whether the unit can accept no further transitions.
func (f *Fulfillment) Terminal() bool {
	return f.Cancelled() || f.CourierStatus == CourierDelivered || f.CourierStatus == CourierNotDelivered
}
