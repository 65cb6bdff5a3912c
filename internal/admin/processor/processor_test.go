package processor

import (
	"context"
	"testing"

	"adpulse-server/internal/observability"
	"adpulse-server/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockAdminStore is a mock implementation of AdminStore
type MockAdminStore struct {
	mock.Mock
}

func (m *MockAdminStore) GetCompanyByID(ctx context.Context, id primitive.ObjectID) (store.CompanyAccount, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(store.CompanyAccount), args.Error(1)
}

func (m *MockAdminStore) AddProduct(ctx context.Context, companyID primitive.ObjectID, product store.Product) (store.Product, error) {
	args := m.Called(ctx, companyID, product)
	return args.Get(0).(store.Product), args.Error(1)
}

func (m *MockAdminStore) DeleteProduct(ctx context.Context, companyID, productID primitive.ObjectID, expectedVersion int64) error {
	args := m.Called(ctx, companyID, productID, expectedVersion)
	return args.Error(0)
}

func (m *MockAdminStore) SetProductActive(ctx context.Context, companyID, productID primitive.ObjectID, active bool, expectedVersion int64) error {
	args := m.Called(ctx, companyID, productID, active, expectedVersion)
	return args.Error(0)
}

func (m *MockAdminStore) UpdateComplaintStatus(ctx context.Context, companyID primitive.ObjectID, tweetID string, status store.ComplaintStatus) error {
	args := m.Called(ctx, companyID, tweetID, status)
	return args.Error(0)
}

func newTestProcessor(mockStore *MockAdminStore) AdminProcessor {
	return New(mockStore, observability.NewLogger())
}

func testCompany(companyID primitive.ObjectID, version int64, products ...store.Product) store.CompanyAccount {
	return store.CompanyAccount{
		ID:       companyID,
		Products: products,
		Version:  version,
	}
}

func TestUpdateComplaintStatus_Success(t *testing.T) {
	mockStore := new(MockAdminStore)
	processor := newTestProcessor(mockStore)

	companyID := primitive.NewObjectID()

	mockStore.On("UpdateComplaintStatus", mock.Anything, companyID, "1880000000000000001", store.ComplaintCompleted).
		Return(nil)

	err := processor.UpdateComplaintStatus(context.Background(), companyID.Hex(), "1880000000000000001", "Completed")

	assert.NoError(t, err)
	mockStore.AssertExpectations(t)
}

func TestUpdateComplaintStatus_InvalidStatus(t *testing.T) {
	mockStore := new(MockAdminStore)
	processor := newTestProcessor(mockStore)

	err := processor.UpdateComplaintStatus(context.Background(), primitive.NewObjectID().Hex(), "123", "Resolved")

	assert.ErrorIs(t, err, ErrInvalidStatus)
	mockStore.AssertNotCalled(t, "UpdateComplaintStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateComplaintStatus_ComplaintNotFound(t *testing.T) {
	mockStore := new(MockAdminStore)
	processor := newTestProcessor(mockStore)

	companyID := primitive.NewObjectID()

	mockStore.On("UpdateComplaintStatus", mock.Anything, companyID, "missing", store.ComplaintNotReviewed).
		Return(store.ErrComplaintNotFound)

	err := processor.UpdateComplaintStatus(context.Background(), companyID.Hex(), "missing", "Not Reviewed")

	assert.ErrorIs(t, err, ErrComplaintNotFound)
}

func TestUpdateComplaintStatus_CompanyNotFound(t *testing.T) {
	mockStore := new(MockAdminStore)
	processor := newTestProcessor(mockStore)

	companyID := primitive.NewObjectID()

	mockStore.On("UpdateComplaintStatus", mock.Anything, companyID, "123", store.ComplaintCompleted).
		Return(store.ErrNotFound)

	err := processor.UpdateComplaintStatus(context.Background(), companyID.Hex(), "123", "Completed")

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAddCampaign_DefaultsToActive(t *testing.T) {
	mockStore := new(MockAdminStore)
	processor := newTestProcessor(mockStore)

	companyID := primitive.NewObjectID()

	mockStore.On("AddProduct", mock.Anything, companyID, mock.MatchedBy(func(p store.Product) bool {
		return p.Name == "Summer Sale" && p.IsActive
	})).Return(store.Product{ID: primitive.NewObjectID(), Name: "Summer Sale", IsActive: true}, nil)

	created, err := processor.AddCampaign(context.Background(), companyID.Hex(), CampaignParams{
		Name:        "Summer Sale",
		Description: "Seasonal discounts",
	})

	assert.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.False(t, created.ID.IsZero())
	mockStore.AssertExpectations(t)
}

func TestAddCampaign_ExplicitInactive(t *testing.T) {
	mockStore := new(MockAdminStore)
	processor := newTestProcessor(mockStore)

	companyID := primitive.NewObjectID()
	inactive := false

	mockStore.On("AddProduct", mock.Anything, companyID, mock.MatchedBy(func(p store.Product) bool {
		return !p.IsActive
	})).Return(store.Product{Name: "Draft"}, nil)

	_, err := processor.AddCampaign(context.Background(), companyID.Hex(), CampaignParams{
		Name:     "Draft",
		IsActive: &inactive,
	})

	assert.NoError(t, err)
	mockStore.AssertExpectations(t)
}

func TestAddCampaign_InvalidCompanyID(t *testing.T) {
	mockStore := new(MockAdminStore)
	processor := newTestProcessor(mockStore)

	_, err := processor.AddCampaign(context.Background(), "garbage", CampaignParams{Name: "x"})

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteCampaign_ResolvesIndexToStableID(t *testing.T) {
	mockStore := new(MockAdminStore)
	processor := newTestProcessor(mockStore)

	companyID := primitive.NewObjectID()
	first := store.Product{ID: primitive.NewObjectID(), Name: "First"}
	second := store.Product{ID: primitive.NewObjectID(), Name: "Second"}

	mockStore.On("GetCompanyByID", mock.Anything, companyID).
		Return(testCompany(companyID, 7, first, second), nil)
	mockStore.On("DeleteProduct", mock.Anything, companyID, second.ID, int64(7)).Return(nil)

	err := processor.DeleteCampaign(context.Background(), companyID.Hex(), 1)

	assert.NoError(t, err)
	mockStore.AssertExpectations(t)
}

func TestDeleteCampaign_IndexOutOfRange(t *testing.T) {
	mockStore := new(MockAdminStore)
	processor := newTestProcessor(mockStore)

	companyID := primitive.NewObjectID()

	mockStore.On("GetCompanyByID", mock.Anything, companyID).
		Return(testCompany(companyID, 1, store.Product{ID: primitive.NewObjectID()}), nil)

	err := processor.DeleteCampaign(context.Background(), companyID.Hex(), 5)

	assert.ErrorIs(t, err, ErrCampaignNotFound)
	mockStore.AssertNotCalled(t, "DeleteProduct", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteCampaign_NegativeIndex(t *testing.T) {
	mockStore := new(MockAdminStore)
	processor := newTestProcessor(mockStore)

	companyID := primitive.NewObjectID()

	mockStore.On("GetCompanyByID", mock.Anything, companyID).
		Return(testCompany(companyID, 1, store.Product{ID: primitive.NewObjectID()}), nil)

	err := processor.DeleteCampaign(context.Background(), companyID.Hex(), -1)

	assert.ErrorIs(t, err, ErrCampaignNotFound)
}

func TestDeleteCampaign_RetriesOnceOnVersionConflict(t *testing.T) {
	mockStore := new(MockAdminStore)
	processor := newTestProcessor(mockStore)

	companyID := primitive.NewObjectID()
	product := store.Product{ID: primitive.NewObjectID(), Name: "Only"}

	// First read observes version 3, the conditioned delete loses the race,
	// and the retry succeeds against the re-read version 4.
	mockStore.On("GetCompanyByID", mock.Anything, companyID).
		Return(testCompany(companyID, 3, product), nil).Once()
	mockStore.On("DeleteProduct", mock.Anything, companyID, product.ID, int64(3)).
		Return(store.ErrVersionConflict).Once()
	mockStore.On("GetCompanyByID", mock.Anything, companyID).
		Return(testCompany(companyID, 4, product), nil).Once()
	mockStore.On("DeleteProduct", mock.Anything, companyID, product.ID, int64(4)).
		Return(nil).Once()

	err := processor.DeleteCampaign(context.Background(), companyID.Hex(), 0)

	assert.NoError(t, err)
	mockStore.AssertExpectations(t)
}

func TestDeleteCampaign_GivesUpAfterRepeatedConflicts(t *testing.T) {
	mockStore := new(MockAdminStore)
	processor := newTestProcessor(mockStore)

	companyID := primitive.NewObjectID()
	product := store.Product{ID: primitive.NewObjectID()}

	mockStore.On("GetCompanyByID", mock.Anything, companyID).
		Return(testCompany(companyID, 3, product), nil)
	mockStore.On("DeleteProduct", mock.Anything, companyID, product.ID, int64(3)).
		Return(store.ErrVersionConflict)

	err := processor.DeleteCampaign(context.Background(), companyID.Hex(), 0)

	assert.ErrorIs(t, err, ErrConcurrentModification)
}

func TestToggleCampaignStatus_FlipsActiveFlag(t *testing.T) {
	mockStore := new(MockAdminStore)
	processor := newTestProcessor(mockStore)

	companyID := primitive.NewObjectID()
	product := store.Product{ID: primitive.NewObjectID(), IsActive: true}

	mockStore.On("GetCompanyByID", mock.Anything, companyID).
		Return(testCompany(companyID, 2, product), nil)
	mockStore.On("SetProductActive", mock.Anything, companyID, product.ID, false, int64(2)).Return(nil)

	err := processor.ToggleCampaignStatus(context.Background(), companyID.Hex(), 0)

	assert.NoError(t, err)
	mockStore.AssertExpectations(t)
}

func TestToggleCampaignStatus_TwiceRestoresOriginalState(t *testing.T) {
	mockStore := new(MockAdminStore)
	processor := newTestProcessor(mockStore)

	companyID := primitive.NewObjectID()
	productID := primitive.NewObjectID()

	mockStore.On("GetCompanyByID", mock.Anything, companyID).
		Return(testCompany(companyID, 1, store.Product{ID: productID, IsActive: true}), nil).Once()
	mockStore.On("SetProductActive", mock.Anything, companyID, productID, false, int64(1)).Return(nil).Once()

	mockStore.On("GetCompanyByID", mock.Anything, companyID).
		Return(testCompany(companyID, 2, store.Product{ID: productID, IsActive: false}), nil).Once()
	mockStore.On("SetProductActive", mock.Anything, companyID, productID, true, int64(2)).Return(nil).Once()

	assert.NoError(t, processor.ToggleCampaignStatus(context.Background(), companyID.Hex(), 0))
	assert.NoError(t, processor.ToggleCampaignStatus(context.Background(), companyID.Hex(), 0))
	mockStore.AssertExpectations(t)
}

func TestToggleCampaignStatus_CompanyNotFound(t *testing.T) {
	mockStore := new(MockAdminStore)
	processor := newTestProcessor(mockStore)

	companyID := primitive.NewObjectID()

	mockStore.On("GetCompanyByID", mock.Anything, companyID).
		Return(store.CompanyAccount{}, store.ErrNotFound)

	err := processor.ToggleCampaignStatus(context.Background(), companyID.Hex(), 0)

	assert.ErrorIs(t, err, ErrUserNotFound)
}
