package domain

// Filter selects a subset of the order log for the dashboard.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterNew       Filter = "new"
	FilterPreparing Filter = "preparing"
	FilterReady     Filter = "ready"
	FilterCompleted Filter = "completed"
	FilterPaid      Filter = "paid"
	FilterNotPaid   Filter = "not_paid"
	FilterPickup    Filter = "pickup"
	FilterDelivery  Filter = "delivery"
)

var filters = []Filter{
	FilterAll,
	FilterNew, FilterPreparing, FilterReady, FilterCompleted,
	FilterPaid, FilterNotPaid,
	FilterPickup, FilterDelivery,
}

// Filters lists every known filter key.
func Filters() []Filter {
	return append([]Filter(nil), filters...)
}

// ParseFilter maps a filter key to a Filter. Unknown keys select every order;
// ok reports whether the key was recognised.
func ParseFilter(key string) (f Filter, ok bool) {
	for _, known := range filters {
		if string(known) == key {
			return known, true
		}
	}
	return FilterAll, false
}

// Matches reports whether o belongs to the subset selected by f.
func (f Filter) Matches(o Order) bool {
	switch f {
	case FilterAll:
		return true
	case FilterNew:
		return o.Status == StatusNew
	case FilterPreparing:
		return o.Status == StatusPreparing
	case FilterReady:
		return o.Status == StatusReady
	case FilterCompleted:
		return o.Status == StatusCompleted
	case FilterPaid:
		return o.PaymentStatus == PaymentStatusPaid
	case FilterNotPaid:
		return o.PaymentStatus == PaymentStatusNotPaid
	case FilterPickup:
		return o.DeliveryMethod == DeliveryMethodPickup
	case FilterDelivery:
		return o.DeliveryMethod == DeliveryMethodDelivery
	default:
		return true
	}
}

// FilterOrders returns the orders matched by f in their original order.
func FilterOrders(orders []Order, f Filter) []Order {
	result := make([]Order, 0, len(orders))
	for _, o := range orders {
		if f.Matches(o) {
			result = append(result, o)
		}
	}
	return result
}
