package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"inkwell.io/blog/internal/domain"
)

type userRepository struct {
	users *mongo.Collection
}

func NewUserRepository(db *mongo.Database) domain.UserRepository {
	return &userRepository{users: db.Collection(usersCollection)}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if _, err := r.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.NewError(domain.ErrConflict, "user with email already exists")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.update(ctx, id, bson.M{"$set": bson.M{"password": passwordHash, "updatedAt": time.Now().UTC()}})
}

func (r *userRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	if token == "" {
		return r.update(ctx, id, bson.M{"$unset": bson.M{"refreshToken": ""}})
	}
	return r.update(ctx, id, bson.M{"$set": bson.M{"refreshToken": token}})
}

// SwapRefreshToken matches on the current token so only one of several
// concurrent rotations can win.
func (r *userRepository) SwapRefreshToken(ctx context.Context, id, current, next string) (bool, error) {
	if current == "" {
		return false, nil
	}
	res, err := r.users.UpdateOne(ctx,
		bson.M{"_id": id, "refreshToken": current},
		bson.M{"$set": bson.M{"refreshToken": next}})
	if err != nil {
		return false, fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	return res.MatchedCount == 1, nil
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	if err := r.users.FindOne(ctx, filter).Decode(&user); err != nil {
		if nf := notFound(err, "user"); nf != nil {
			return nil, nf
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) update(ctx context.Context, id string, update bson.M) error {
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.NewError(domain.ErrNotFound, "user not found")
	}
	return nil
}
