package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	History() HistoryRepository
	Profile() ProfileRepository

	Close() error
}
