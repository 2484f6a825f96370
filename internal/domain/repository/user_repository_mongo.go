package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"freecode/internal/common"
	"freecode/internal/domain/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userDoc struct {
	ID             string    `bson:"_id"`
	Email          string    `bson:"email"`
	HashedPassword string    `bson:"password"`
	Role           string    `bson:"role"`
	CreatedAt      time.Time `bson:"createdAt"`
}

type mongoUserRepository struct {
	users *mongo.Collection
}

func NewMongoUserRepository(users *mongo.Collection) UserRepository {
	return &mongoUserRepository{users: users}
}

// EnsureUserIndexes creates the unique email index the duplicate check relies on.
func EnsureUserIndexes(ctx context.Context, users *mongo.Collection) error {
	_, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}
	return nil
}

func (r *mongoUserRepository) Create(ctx context.Context, user *model.User) error {
	user.Email = model.NormalizeEmail(user.Email)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	doc := userDoc{
		ID:             user.ID,
		Email:          user.Email,
		HashedPassword: user.HashedPassword,
		Role:           user.Role,
		CreatedAt:      user.CreatedAt,
	}
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("user with email %s already exists: %w", user.Email, common.ErrDuplicateEmail)
		}
		return fmt.Errorf("mongoUserRepository.Create: %w", err)
	}
	return nil
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var doc userDoc
	err := r.users.FindOne(ctx, bson.M{"email": model.NormalizeEmail(email)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("mongoUserRepository.FindByEmail: %w", err)
	}
	return &model.User{
		ID:             doc.ID,
		Email:          doc.Email,
		HashedPassword: doc.HashedPassword,
		Role:           doc.Role,
		CreatedAt:      doc.CreatedAt,
	}, nil
}
