package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campusmarket/campus-market/internal/core/domain"
	"github.com/campusmarket/campus-market/internal/core/ports"
)

const accountCollection = "accounts"

// AccountRepository is the identity collaborator's credential store. Domain
// entities never live here; only email/password-hash pairs do.
type AccountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{coll: db.Collection(accountCollection)}
}

type accountDoc struct {
	ID           string `bson:"_id"`
	Email        string `bson:"email"`
	PasswordHash string `bson:"password_hash"`
	CreatedAt    int64  `bson:"created_at"`
	UpdatedAt    int64  `bson:"updated_at"`
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	doc := accountDoc{
		ID:           account.ID,
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
		CreatedAt:    account.CreatedAt.Unix(),
		UpdatedAt:    account.UpdatedAt.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var doc accountDoc
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	return &domain.Account{
		ID:           doc.ID,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    unixToTime(doc.CreatedAt),
		UpdatedAt:    unixToTime(doc.UpdatedAt),
	}, nil
}

// EnsureIndexes creates the unique email index. Run once at startup.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}

var _ ports.AccountRepository = (*AccountRepository)(nil)
