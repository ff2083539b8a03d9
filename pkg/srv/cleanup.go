package srv

import "context"

// cleanupService adapts a bare close function into a Service so resource
// teardown rides the normal shutdown path.
type cleanupService struct {
	cleanup func() error
}

func (c *cleanupService) Start(ctx context.Context) error {
	return nil
}

func (c *cleanupService) Shutdown(ctx context.Context) error {
	if c.cleanup == nil {
		return nil
	}
	return c.cleanup()
}

func NewCleanup(fn func() error) Service {
	return &cleanupService{cleanup: fn}
}
