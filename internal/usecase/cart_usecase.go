package usecase

import (
	"context"

	"dinein/internal/domain/entity"
)

// MutationKind names an optimistic cart edit.
type MutationKind string

const (
	MutationAdd            MutationKind = "add"
	MutationChangeQuantity MutationKind = "change_quantity"
	MutationRemove         MutationKind = "remove"
	MutationClear          MutationKind = "clear"
)

// MutationStatus is the state of one optimistic edit: pending until the
// backend answers, then committed or reverted.
type MutationStatus int

const (
	MutationPending MutationStatus = iota
	MutationCommitted
	MutationReverted
	// MutationAbandoned means the session changed before the backend answered.
	MutationAbandoned
)

func (s MutationStatus) String() string {
	switch s {
	case MutationCommitted:
		return "committed"
	case MutationReverted:
		return "reverted"
	case MutationAbandoned:
		return "abandoned"
	default:
		return "pending"
	}
}

// Mutation reports a step of an optimistic edit.
type Mutation struct {
	Kind   MutationKind
	LineID string
	Status MutationStatus

	// Cart is the local cart right after this step.
	Cart entity.Cart
	Err  error
}

// AddItemInput describes a product being added to the cart.
type AddItemInput struct {
	Product             entity.Product
	Quantity            int
	Addons              []entity.Addon
	SpecialInstructions string
}

// CartUsecase mirrors the server cart with optimistic local edits. Without an
// established session every operation is a no-op that returns no error.
type CartUsecase interface {
	Snapshot() entity.Cart

	// Watch registers an observer for mutation steps.
	Watch(observer func(Mutation))

	Refresh(ctx context.Context) error
	Add(ctx context.Context, input AddItemInput) error
	ChangeQuantity(ctx context.Context, lineID string, delta int) error
	Remove(ctx context.Context, lineID string) error
	Clear(ctx context.Context) error

	// PlaceOrder submits the server cart and then refreshes instead of clearing locally.
	PlaceOrder(ctx context.Context, specialInstructions string) (*entity.Order, error)
}
