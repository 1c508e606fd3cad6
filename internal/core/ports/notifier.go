package ports

// Notifier is the user-facing notification surface.
// It is used only when a resolution or playback reaches a terminal point.
//
//go:generate mockgen -source=notifier.go -destination=mocks/mock_notifier.go -package=mocks
type Notifier interface {
	Notify(message string, isError bool)
}
