package processor

import (
	"context"
	"errors"

	"adpulse-server/internal/observability"
	"adpulse-server/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminStore defines the database operations required by AdminProcessor
type AdminStore interface {
	GetCompanyByID(ctx context.Context, id primitive.ObjectID) (store.CompanyAccount, error)
	AddProduct(ctx context.Context, companyID primitive.ObjectID, product store.Product) (store.Product, error)
	DeleteProduct(ctx context.Context, companyID, productID primitive.ObjectID, expectedVersion int64) error
	SetProductActive(ctx context.Context, companyID, productID primitive.ObjectID, active bool, expectedVersion int64) error
	UpdateComplaintStatus(ctx context.Context, companyID primitive.ObjectID, tweetID string, status store.ComplaintStatus) error
}

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrCampaignNotFound       = errors.New("campaign not found")
	ErrComplaintNotFound      = errors.New("complaint not found")
	ErrInvalidStatus          = errors.New("invalid complaint status")
	ErrConcurrentModification = errors.New("campaign list modified concurrently")
)

// Index-addressed mutations re-read the aggregate and retry once when the
// version-conditioned write loses a race.
const conflictRetries = 1

type AdminProcessor struct {
	store  AdminStore
	logger *observability.Logger
}

func New(store AdminStore, logger *observability.Logger) AdminProcessor {
	return AdminProcessor{
		store:  store,
		logger: logger,
	}
}

// CampaignParams holds the fields of a new ad campaign.
type CampaignParams struct {
	Name             string
	Description      string
	TargetedAudience string
	Category         []string
	IsActive         *bool
	Tweets           []store.TweetRef
}

// UpdateComplaintStatus transitions the first complaint matching tweetID to
// newStatus. Only enum membership is validated; transitions are not ordered.
func (p *AdminProcessor) UpdateComplaintStatus(ctx context.Context, companyID, tweetID, newStatus string) error {
	status := store.ComplaintStatus(newStatus)
	if !status.IsValid() {
		return ErrInvalidStatus
	}

	id, err := parseCompanyID(companyID)
	if err != nil {
		return err
	}

	err = p.store.UpdateComplaintStatus(ctx, id, tweetID, status)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, store.ErrComplaintNotFound):
		return ErrComplaintNotFound
	case err != nil:
		p.logger.Error(ctx, "failed to update complaint status", err)
		return err
	}
	return nil
}

// AddCampaign appends a new campaign to the company's product list.
func (p *AdminProcessor) AddCampaign(ctx context.Context, companyID string, params CampaignParams) (store.Product, error) {
	id, err := parseCompanyID(companyID)
	if err != nil {
		return store.Product{}, err
	}

	active := true
	if params.IsActive != nil {
		active = *params.IsActive
	}
	product := store.Product{
		Name:             params.Name,
		Description:      params.Description,
		TargetedAudience: params.TargetedAudience,
		Category:         params.Category,
		IsActive:         active,
		Tweets:           params.Tweets,
	}

	created, err := p.store.AddProduct(ctx, id, product)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Product{}, ErrUserNotFound
		}
		p.logger.Error(ctx, "failed to add campaign", err)
		return store.Product{}, err
	}
	return created, nil
}

// DeleteCampaign removes the campaign at the given position. The positional
// index is resolved to the product's stable id from a fresh read, and the
// delete is conditioned on the aggregate version observed by that read, so a
// concurrent mutation cannot shift the index under us.
func (p *AdminProcessor) DeleteCampaign(ctx context.Context, companyID string, index int) error {
	id, err := parseCompanyID(companyID)
	if err != nil {
		return err
	}

	for attempt := 0; attempt <= conflictRetries; attempt++ {
		company, err := p.store.GetCompanyByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			p.logger.Error(ctx, "failed to load company", err)
			return err
		}
		if index < 0 || index >= len(company.Products) {
			return ErrCampaignNotFound
		}

		err = p.store.DeleteProduct(ctx, id, company.Products[index].ID, company.Version)
		if errors.Is(err, store.ErrVersionConflict) {
			continue
		}
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			p.logger.Error(ctx, "failed to delete campaign", err)
		}
		return err
	}
	return ErrConcurrentModification
}

// ToggleCampaignStatus flips the active flag of the campaign at the given
// position. Toggling twice restores the original state.
func (p *AdminProcessor) ToggleCampaignStatus(ctx context.Context, companyID string, index int) error {
	id, err := parseCompanyID(companyID)
	if err != nil {
		return err
	}

	for attempt := 0; attempt <= conflictRetries; attempt++ {
		company, err := p.store.GetCompanyByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			p.logger.Error(ctx, "failed to load company", err)
			return err
		}
		if index < 0 || index >= len(company.Products) {
			return ErrCampaignNotFound
		}

		product := company.Products[index]
		err = p.store.SetProductActive(ctx, id, product.ID, !product.IsActive, company.Version)
		if errors.Is(err, store.ErrVersionConflict) {
			continue
		}
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			p.logger.Error(ctx, "failed to toggle campaign status", err)
		}
		return err
	}
	return ErrConcurrentModification
}

func parseCompanyID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrUserNotFound
	}
	return objectID, nil
}
