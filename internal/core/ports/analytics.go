package ports

// Analytics captures product events.
//
//go:generate mockgen -source=analytics.go -destination=mocks/mock_analytics.go -package=mocks
type Analytics interface {
	Capture(event string, properties map[string]any)
	Close() error
}
