package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devanshhooda/learn-live-server/internal/models"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicatePhone = errors.New("phone number already registered")
	ErrInvalidUserID  = errors.New("invalid user id")
)

// UserRepository is the credential store: user records plus their relation
// lists. Relation transitions sequence ApplyRelationUpdate calls, one write
// per user document.
type UserRepository interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	UpdateByPhone(ctx context.Context, phone string, patch *models.ProfilePatch) (*models.User, error)
	UpdateByID(ctx context.Context, id string, patch *models.ProfilePatch) (*models.User, error)
	ListAll(ctx context.Context) ([]models.User, error)
	ListFiltered(ctx context.Context, criteria models.FilterCriteria) ([]models.User, error)
	ApplyRelationUpdate(ctx context.Context, id string, upd models.RelationUpdate) error
}

type mongoUserRepo struct {
	col *mongo.Collection
}

func NewMongoUserRepo(db *mongo.Database, collection string) UserRepository {
	col := db.Collection(collection)
	// indexes
	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "phoneNumber", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
	})
	return &mongoUserRepo{col: col}
}

func (r *mongoUserRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	res, err := r.col.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicatePhone
		}
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return u, nil
}

func (r *mongoUserRepo) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, bson.M{"phoneNumber": phone}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *mongoUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidUserID
	}
	var u models.User
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *mongoUserRepo) UpdateByPhone(ctx context.Context, phone string, patch *models.ProfilePatch) (*models.User, error) {
	return r.update(ctx, bson.M{"phoneNumber": phone}, patch)
}

func (r *mongoUserRepo) UpdateByID(ctx context.Context, id string, patch *models.ProfilePatch) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidUserID
	}
	return r.update(ctx, bson.M{"_id": oid}, patch)
}

func (r *mongoUserRepo) update(ctx context.Context, filter bson.M, patch *models.ProfilePatch) (*models.User, error) {
	if patch.IsEmpty() {
		var u models.User
		err := r.col.FindOne(ctx, filter).Decode(&u)
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		if err != nil {
			return nil, err
		}
		return &u, nil
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u models.User
	err := r.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": patch}, opts).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *mongoUserRepo) ListAll(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetProjection(bson.M{"password": 0})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *mongoUserRepo) ListFiltered(ctx context.Context, criteria models.FilterCriteria) ([]models.User, error) {
	// Every criterion is applied as an $in, so an empty list matches no
	// documents.
	filter := bson.M{
		"profession": bson.M{"$in": criteria.Profession},
		"company":    bson.M{"$in": criteria.Company},
		"institute":  bson.M{"$in": criteria.Institute},
	}
	opts := options.Find().SetProjection(bson.M{"password": 0})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *mongoUserRepo) ApplyRelationUpdate(ctx context.Context, id string, upd models.RelationUpdate) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidUserID
	}

	update := bson.M{}
	if len(upd.Push) > 0 {
		push := bson.M{}
		for field, peer := range upd.Push {
			push[field] = peer
		}
		update["$push"] = push
	}
	if len(upd.Pull) > 0 {
		pull := bson.M{}
		for field, peer := range upd.Pull {
			pull[field] = peer
		}
		update["$pull"] = pull
	}
	if len(update) == 0 {
		return nil
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}
