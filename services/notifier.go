package services

// OrderNotifier pushes order lifecycle events to a store's seller. The ws
// package provides the hub; services only see this interface.
type OrderNotifier interface {
	NotifyStore(storeID uint, event string, payload any)
}
