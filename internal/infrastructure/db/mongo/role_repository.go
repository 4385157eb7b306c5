package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hasandag/auth-service/internal/core/domain"
	"github.com/hasandag/auth-service/internal/core/ports"
)

const roleCollection = "roles"

var _ ports.RoleStore = (*RoleRepository)(nil)

type RoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{coll: db.Collection(roleCollection)}
}

type roleDoc struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Name string             `bson:"name"`
}

func (r *RoleRepository) FindByName(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	var doc roleDoc
	if err := r.coll.FindOne(ctx, bson.M{"name": string(name)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return &domain.Role{ID: doc.ID.Hex(), Name: domain.RoleName(doc.Name)}, nil
}

// Insert upserts with $setOnInsert so that, inside a transaction, a
// concurrent creator shows up as a retryable write conflict instead of
// aborting the transaction with a duplicate key. Outside a transaction the
// unique index still rejects the loser with E11000.
func (r *RoleRepository) Insert(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"name": string(name)},
		bson.M{"$setOnInsert": bson.M{"name": string(name)}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrRoleExists
		}
		return nil, fmt.Errorf("insert role: %w", err)
	}
	if res.UpsertedID == nil {
		return nil, domain.ErrRoleExists
	}
	oid, ok := res.UpsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert role: unexpected id type %T", res.UpsertedID)
	}
	return &domain.Role{ID: oid.Hex(), Name: name}, nil
}

func (r *RoleRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_role_name"),
	})
	return err
}
