package ports

import (
	"context"

	"freight-marketplace-service/internal/domain"
)

type IssueRepository interface {
	Create(ctx context.Context, i *domain.Issue) error
	GetByID(ctx context.Context, id string) (*domain.Issue, error)
	List(ctx context.Context, shipmentID, reporterID string) ([]*domain.Issue, error)
	Resolve(ctx context.Context, id string) error
}

type ProofRepository interface {
	Create(ctx context.Context, p *domain.DeliveryProof) error
	ListByShipment(ctx context.Context, shipmentID string) ([]*domain.DeliveryProof, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, c *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context, ownerID string) ([]*domain.Customer, error)
	Update(ctx context.Context, c *domain.Customer) error
	Delete(ctx context.Context, id string) error
}
