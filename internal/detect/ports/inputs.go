package ports

import "context"

// DetectUseCase is the driving port for a change-detection run.
type DetectUseCase interface {
	Execute(ctx context.Context) error
}
