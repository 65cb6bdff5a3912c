package processor

import (
	"context"
	"errors"

	"adpulse-server/internal/observability"
	"adpulse-server/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// CompanyStore defines the database operations required by AuthProcessor
type CompanyStore interface {
	CreateCompany(ctx context.Context, company store.CompanyAccount) (store.CompanyAccount, error)
	GetCompanyByEmail(ctx context.Context, email string) (store.CompanyAccount, error)
	GetCompanyByID(ctx context.Context, id primitive.ObjectID) (store.CompanyAccount, error)
}

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrEmailDoesNotExist  = errors.New("email does not exist")
	ErrIncorrectPassword  = errors.New("incorrect password")
	ErrUserNotFound       = errors.New("user not found")
	ErrFailedSignIn       = errors.New("failed to sign in")
)

type AuthProcessor struct {
	store     CompanyStore
	jwtSecret string
	logger    *observability.Logger
}

func New(store CompanyStore, jwtSecret string, logger *observability.Logger) AuthProcessor {
	return AuthProcessor{
		store:     store,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// SignupParams holds the fields needed to register a company account.
type SignupParams struct {
	CompanyEmail string
	Password     string
	CompanyName  string
	Industry     string
	Description  string
	Website      string
}

// Signup registers a new company account with a bcrypt-hashed password.
func (p *AuthProcessor) Signup(ctx context.Context, params SignupParams) (store.CompanyAccount, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "email", Value: params.CompanyEmail})

	_, err := p.store.GetCompanyByEmail(ctx, params.CompanyEmail)
	if err == nil {
		return store.CompanyAccount{}, ErrEmailAlreadyExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		p.logger.Error(ctx, "failed to check if email exists", err)
		return store.CompanyAccount{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		p.logger.Error(ctx, "failed to hash password", err)
		return store.CompanyAccount{}, err
	}

	company, err := p.store.CreateCompany(ctx, store.CompanyAccount{
		CompanyEmail: params.CompanyEmail,
		Password:     string(hashedPassword),
		CompanyName:  params.CompanyName,
		Industry:     params.Industry,
		Description:  params.Description,
		Website:      params.Website,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to create company account", err)
		return store.CompanyAccount{}, err
	}
	return company, nil
}

// Login verifies the company's credentials and returns a signed JWT.
func (p *AuthProcessor) Login(ctx context.Context, email, password string) (string, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "email", Value: email})

	company, err := p.store.GetCompanyByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrEmailDoesNotExist
		}
		p.logger.Error(ctx, "failed to get company by email", err)
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(company.Password), []byte(password)); err != nil {
		return "", ErrIncorrectPassword
	}

	token, err := p.generateJWTToken(ctx, company.ID)
	if err != nil {
		p.logger.Error(ctx, "failed to generate jwt token", err)
		return "", err
	}
	return token, nil
}

// GetCompanyByID loads the company aggregate identified by the token subject.
func (p *AuthProcessor) GetCompanyByID(ctx context.Context, id string) (store.CompanyAccount, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return store.CompanyAccount{}, ErrUserNotFound
	}
	company, err := p.store.GetCompanyByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.CompanyAccount{}, ErrUserNotFound
		}
		p.logger.Error(ctx, "failed to get company by id", err)
		return store.CompanyAccount{}, err
	}
	return company, nil
}
