package ports

// Notifier pushes live-reload signals to connected development clients.
//
//go:generate mockgen -source=notifier.go -destination=mocks/mock_notifier.go -package=mocks
type Notifier interface {
	// Broadcast sends payload to every connected client.
	// Delivery is best effort; failures are handled by the implementation.
	Broadcast(payload string)
}
