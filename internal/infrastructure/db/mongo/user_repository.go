package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jobtrackr/job-trackr/internal/core/domain"
	"github.com/jobtrackr/job-trackr/internal/core/ports"
)

const collectionUsers = "users"

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

// userDoc is the stored shape. ID is interface{} for the same reason as the
// application owner reference: legacy accounts carry a string _id.
type userDoc struct {
	ID           interface{} `bson:"_id,omitempty"`
	Email        string      `bson:"email"`
	PasswordHash string      `bson:"password_hash"`
	Name         string      `bson:"name,omitempty"`
	Phone        string      `bson:"phone,omitempty"`
	Introduction string      `bson:"introduction,omitempty"`
	ProfilePhoto string      `bson:"profile_photo,omitempty"`
	UpdatedAt    time.Time   `bson:"updated_at,omitempty"`
}

// Create inserts a new account. The unique index on email turns a racing
// duplicate insert into domain.ErrUserExists.
func (r *UserRepository) Create(ctx context.Context, email, passwordHash string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, userDoc{Email: email, PasswordHash: passwordHash})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, errors.New("mongo: unexpected inserted id type")
	}
	return &domain.User{ID: oid.Hex(), Email: email, PasswordHash: passwordHash}, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return userFromDoc(&doc), nil
}

// FindByID resolves a session-carried identifier, tolerating documents whose
// _id is stored either as a typed ObjectID or as its string form.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": idFilter(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return userFromDoc(&doc), nil
}

// UpdateProfile upserts the profile fields on the account matched by email.
func (r *UserRepository) UpdateProfile(ctx context.Context, email string, update ports.ProfileUpdate, updatedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{
			"name":          update.Name,
			"phone":         update.Phone,
			"introduction":  update.Introduction,
			"profile_photo": update.ProfilePhoto,
			"updated_at":    updatedAt,
		}},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique email index backing signup uniqueness.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func userFromDoc(doc *userDoc) *domain.User {
	return &domain.User{
		ID:           ownerString(doc.ID),
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		Name:         doc.Name,
		Phone:        doc.Phone,
		Introduction: doc.Introduction,
		ProfilePhoto: doc.ProfilePhoto,
		UpdatedAt:    doc.UpdatedAt.UTC(),
	}
}
