package models

type UserStatus string
type UserRole string
type LoadType string
type LoadStatus string
type RequestStatus string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"

	UserRoleBroker  UserRole = "broker"
	UserRoleCarrier UserRole = "carrier"
	UserRoleAdmin   UserRole = "admin"

	// LoadTypeBrokerPost (RFP) - freight posted by a broker seeking a carrier.
	// LoadTypeCarrierDemand (RFD) - a carrier seeking freight to haul.
	// LoadTypeTruckCapacity - open truck space posted by a carrier.
	LoadTypeBrokerPost    LoadType = "broker_post"
	LoadTypeCarrierDemand LoadType = "carrier_demand"
	LoadTypeTruckCapacity LoadType = "truck_capacity"

	LoadStatusActive    LoadStatus = "active"
	LoadStatusAssigned  LoadStatus = "assigned"
	LoadStatusCompleted LoadStatus = "completed"
	LoadStatusCancelled LoadStatus = "cancelled"

	RequestStatusPending  RequestStatus = "pending"
	RequestStatusAccepted RequestStatus = "accepted"
	RequestStatusRejected RequestStatus = "rejected"
)

// CascadeRejectionMessage is written to every pending sibling request when
// a competing request is accepted.
const CascadeRejectionMessage = "Load assigned to another carrier"
