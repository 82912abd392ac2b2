package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/launchbase/accounts-api/internal/core/domain"
	"github.com/launchbase/accounts-api/internal/core/ports"
)

const profileCollection = "profiles"

// ProfileRepository stores profiles in MongoDB, keyed by the identity's id.
type ProfileRepository struct {
	coll *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{coll: db.Collection(profileCollection)}
}

type profileDoc struct {
	ID        string  `bson:"_id"`
	Email     string  `bson:"email"`
	FullName  *string `bson:"full_name,omitempty"`
	AvatarURL *string `bson:"avatar_url,omitempty"`
	Bio       *string `bson:"bio,omitempty"`
	Role      string  `bson:"role"`
	CreatedAt int64   `bson:"created_at"`
	UpdatedAt int64   `bson:"updated_at"`
}

func (r *ProfileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	doc := profileDoc{
		ID:        profile.ID,
		Email:     profile.Email,
		FullName:  profile.FullName,
		AvatarURL: profile.AvatarURL,
		Bio:       profile.Bio,
		Role:      profile.Role,
		CreatedAt: profile.CreatedAt.Unix(),
		UpdatedAt: profile.UpdatedAt.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	var doc profileDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return docToProfile(doc), nil
}

// Update applies a partial mutation: nil means leave unchanged, a pointer to
// the empty string clears the field.
func (r *ProfileRepository) Update(ctx context.Context, id string, update ports.ProfileUpdate) (*domain.Profile, error) {
	set := bson.M{"updated_at": time.Now().UTC().Unix()}
	unset := bson.M{}

	applyField(set, unset, "full_name", update.FullName)
	applyField(set, unset, "bio", update.Bio)

	mutation := bson.M{"$set": set}
	if len(unset) > 0 {
		mutation["$unset"] = unset
	}

	var doc profileDoc
	err := r.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		mutation,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return docToProfile(doc), nil
}

func (r *ProfileRepository) SetAvatarURL(ctx context.Context, id string, avatarURL *string) error {
	mutation := bson.M{"$set": bson.M{"updated_at": time.Now().UTC().Unix()}}
	if avatarURL != nil {
		mutation["$set"].(bson.M)["avatar_url"] = *avatarURL
	} else {
		mutation["$unset"] = bson.M{"avatar_url": ""}
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, mutation)
	if err != nil {
		return fmt.Errorf("set avatar url: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepository) List(ctx context.Context) ([]domain.Profile, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer cursor.Close(ctx)

	var profiles []domain.Profile
	for cursor.Next(ctx) {
		var doc profileDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
		profiles = append(profiles, *docToProfile(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

func applyField(set, unset bson.M, field string, value *string) {
	if value == nil {
		return
	}
	if *value == "" {
		unset[field] = ""
		return
	}
	set[field] = *value
}

func docToProfile(doc profileDoc) *domain.Profile {
	return &domain.Profile{
		ID:        doc.ID,
		Email:     doc.Email,
		FullName:  doc.FullName,
		AvatarURL: doc.AvatarURL,
		Bio:       doc.Bio,
		Role:      doc.Role,
		CreatedAt: unixToTime(doc.CreatedAt),
		UpdatedAt: unixToTime(doc.UpdatedAt),
	}
}
