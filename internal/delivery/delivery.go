package delivery

import "context"

// Delivery is a server started by the application after fx has built it.
type Delivery interface {
	Serve(ctx context.Context) error
}
