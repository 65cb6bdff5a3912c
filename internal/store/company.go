package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrComplaintNotFound = errors.New("complaint not found")

// CreateCompany inserts a new company account aggregate. Embedded products
// and complaints receive stable ids, and the version counter starts at 1.
func (s *Store) CreateCompany(ctx context.Context, company CompanyAccount) (CompanyAccount, error) {
	now := time.Now().UTC()
	company.ID = primitive.NewObjectID()
	company.CreatedAt = now
	company.UpdatedAt = now
	company.Version = 1
	if company.Products == nil {
		company.Products = []Product{}
	}
	if company.Complaints == nil {
		company.Complaints = []Complaint{}
	}
	for i := range company.Products {
		assignProductIDs(&company.Products[i])
	}
	for i := range company.Complaints {
		if company.Complaints[i].ID.IsZero() {
			company.Complaints[i].ID = primitive.NewObjectID()
		}
	}

	if _, err := s.companies.InsertOne(ctx, company); err != nil {
		return CompanyAccount{}, fmt.Errorf("failed to insert company: %w", err)
	}
	return company, nil
}

// GetCompanyByID fetches a company aggregate by its document id.
func (s *Store) GetCompanyByID(ctx context.Context, id primitive.ObjectID) (CompanyAccount, error) {
	var company CompanyAccount
	err := s.companies.FindOne(ctx, bson.M{"_id": id}).Decode(&company)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return CompanyAccount{}, ErrNotFound
		}
		return CompanyAccount{}, fmt.Errorf("failed to fetch company: %w", err)
	}
	return company, nil
}

// GetCompanyByEmail fetches a company aggregate by its unique business key.
func (s *Store) GetCompanyByEmail(ctx context.Context, email string) (CompanyAccount, error) {
	var company CompanyAccount
	err := s.companies.FindOne(ctx, bson.M{"companyEmail": email}).Decode(&company)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return CompanyAccount{}, ErrNotFound
		}
		return CompanyAccount{}, fmt.Errorf("failed to fetch company by email: %w", err)
	}
	return company, nil
}

// ListCompanies returns every company aggregate in the collection.
func (s *Store) ListCompanies(ctx context.Context) ([]CompanyAccount, error) {
	cursor, err := s.companies.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer cursor.Close(ctx)

	var companies []CompanyAccount
	if err := cursor.All(ctx, &companies); err != nil {
		return nil, fmt.Errorf("failed to decode companies: %w", err)
	}
	return companies, nil
}

// AddProduct appends a product to the company's campaign list with a single
// atomic write. The product and its embedded tweet refs receive stable ids.
func (s *Store) AddProduct(ctx context.Context, companyID primitive.ObjectID, product Product) (Product, error) {
	assignProductIDs(&product)

	res, err := s.companies.UpdateOne(ctx,
		bson.M{"_id": companyID},
		bson.M{
			"$push": bson.M{"products": product},
			"$inc":  bson.M{"version": 1},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return Product{}, fmt.Errorf("failed to add product: %w", err)
	}
	if res.MatchedCount == 0 {
		return Product{}, ErrNotFound
	}
	return product, nil
}

// DeleteProduct removes the identified product. The write is conditioned on
// the aggregate version observed by the caller; a concurrent modification
// between read and write surfaces as ErrVersionConflict instead of a lost
// update.
func (s *Store) DeleteProduct(ctx context.Context, companyID, productID primitive.ObjectID, expectedVersion int64) error {
	res, err := s.companies.UpdateOne(ctx,
		bson.M{"_id": companyID, "version": expectedVersion},
		bson.M{
			"$pull": bson.M{"products": bson.M{"_id": productID}},
			"$inc":  bson.M{"version": 1},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.MatchedCount == 0 {
		return s.classifyMissedWrite(ctx, companyID)
	}
	return nil
}

// SetProductActive flips the identified product's active flag, conditioned on
// the observed aggregate version.
func (s *Store) SetProductActive(ctx context.Context, companyID, productID primitive.ObjectID, active bool, expectedVersion int64) error {
	res, err := s.companies.UpdateOne(ctx,
		bson.M{"_id": companyID, "version": expectedVersion, "products._id": productID},
		bson.M{
			"$set": bson.M{"products.$.isActive": active, "updatedAt": time.Now().UTC()},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to update product status: %w", err)
	}
	if res.MatchedCount == 0 {
		return s.classifyMissedWrite(ctx, companyID)
	}
	return nil
}

// UpdateComplaintStatus sets the status of the first complaint whose tweetId
// matches, as a single atomic write. Duplicate tweet ids resolve to the first
// match in array order.
func (s *Store) UpdateComplaintStatus(ctx context.Context, companyID primitive.ObjectID, tweetID string, status ComplaintStatus) error {
	res, err := s.companies.UpdateOne(ctx,
		bson.M{"_id": companyID, "complaints.tweetId": tweetID},
		bson.M{
			"$set": bson.M{"complaints.$.status": status, "updatedAt": time.Now().UTC()},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to update complaint status: %w", err)
	}
	if res.MatchedCount == 0 {
		if _, err := s.GetCompanyByID(ctx, companyID); err != nil {
			return err
		}
		return ErrComplaintNotFound
	}
	return nil
}

// classifyMissedWrite distinguishes a vanished aggregate from a version
// conflict after a conditioned update matched nothing.
func (s *Store) classifyMissedWrite(ctx context.Context, companyID primitive.ObjectID) error {
	if _, err := s.GetCompanyByID(ctx, companyID); err != nil {
		return err
	}
	return ErrVersionConflict
}

func assignProductIDs(p *Product) {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	for i := range p.Tweets {
		if p.Tweets[i].ID.IsZero() {
			p.Tweets[i].ID = primitive.NewObjectID()
		}
	}
}
