package domain

import "strings"

// OrderStatus is the lifecycle state of a production order.
// Transitions are not order-enforced: any status may be set on update, the
// service only manages the end-date side effects.
type OrderStatus string

const (
	OrderPlanned    OrderStatus = "Planned"
	OrderInProgress OrderStatus = "InProgress"
	OrderFinished   OrderStatus = "Finished"
)

// orderStatusNames maps each status to its persisted representation. Stored
// values are decoupled from the constants so renaming the enumeration never
// rewrites existing rows.
var orderStatusNames = map[OrderStatus]string{
	OrderPlanned:    "Planned",
	OrderInProgress: "InProgress",
	OrderFinished:   "Finished",
}

// OrderStatuses returns all recognized statuses in lifecycle order.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{OrderPlanned, OrderInProgress, OrderFinished}
}

// OrderStatusNames returns the persisted names of all recognized statuses.
func OrderStatusNames() []string {
	names := make([]string, 0, len(orderStatusNames))
	for _, s := range OrderStatuses() {
		names = append(names, orderStatusNames[s])
	}
	return names
}

// Valid reports whether s is a recognized order status.
func (s OrderStatus) Valid() bool {
	_, ok := orderStatusNames[s]
	return ok
}

// StoredName returns the persisted representation of s.
func (s OrderStatus) StoredName() string {
	return orderStatusNames[s]
}

// ParseOrderStatus resolves a status from its persisted name,
// case-insensitively.
func ParseOrderStatus(name string) (OrderStatus, bool) {
	for status, stored := range orderStatusNames {
		if strings.EqualFold(stored, strings.TrimSpace(name)) {
			return status, true
		}
	}
	return "", false
}

// ResourceStatus is the informational state of a production resource. It is
// never enforced against log creation.
type ResourceStatus string

const (
	ResourceAvailable ResourceStatus = "Available"
	ResourceInUse     ResourceStatus = "InUse"
	ResourceStopped   ResourceStatus = "Stopped"
)

// Valid reports whether s is a recognized resource status.
func (s ResourceStatus) Valid() bool {
	switch s {
	case ResourceAvailable, ResourceInUse, ResourceStopped:
		return true
	}
	return false
}
