package identity

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dentalportal/portal/internal/platform/docstore"
	"github.com/dentalportal/portal/internal/platform/store"
)

type userDoc struct {
	ID    primitive.ObjectID     `bson:"_id,omitempty"`
	Name  string                 `bson:"name,omitempty"`
	Email string                 `bson:"email,omitempty"`
	Role  string                 `bson:"role,omitempty"`
	Extra map[string]interface{} `bson:",inline"`
}

func (d *userDoc) model() *User {
	return &User{ID: d.ID.Hex(), Name: d.Name, Email: d.Email, Role: d.Role, Extra: d.Extra}
}

type doctorDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Specialty string             `bson:"specialty"`
	Image     string             `bson:"image"`
}

func (d *doctorDoc) model() *Doctor {
	return &Doctor{ID: d.ID.Hex(), Name: d.Name, Email: d.Email, Specialty: d.Specialty, Image: d.Image}
}

// =========== User Repository ===========

type userRepoMongo struct{ coll *mongo.Collection }

func NewUserRepoMongo(database *mongo.Database) UserRepository {
	return &userRepoMongo{coll: database.Collection(docstore.Users)}
}

func (r *userRepoMongo) List(ctx context.Context) ([]*User, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	out := make([]*User, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].model())
	}
	return out, nil
}

func (r *userRepoMongo) GetByEmail(ctx context.Context, email string) (*User, error) {
	var d userDoc
	err := r.coll.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return d.model(), nil
}

func (r *userRepoMongo) Create(ctx context.Context, u *User) (*store.InsertResult, error) {
	res, err := r.coll.InsertOne(ctx, &userDoc{Name: u.Name, Email: u.Email, Role: u.Role, Extra: u.Extra})
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	u.ID = docstore.IDString(res.InsertedID)
	return docstore.InsertResult(res), nil
}

func (r *userRepoMongo) PromoteToAdmin(ctx context.Context, id string) (*store.UpdateResult, error) {
	oid, ok := docstore.ObjectID(id)
	if !ok {
		return &store.UpdateResult{Acknowledged: true}, nil
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "role", Value: "admin"}}}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("promote user %s: %w", id, err)
	}
	return docstore.UpdateResult(res), nil
}

// =========== Doctor Repository ===========

type doctorRepoMongo struct{ coll *mongo.Collection }

func NewDoctorRepoMongo(database *mongo.Database) DoctorRepository {
	return &doctorRepoMongo{coll: database.Collection(docstore.Doctors)}
}

func (r *doctorRepoMongo) List(ctx context.Context) ([]*Doctor, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find doctors: %w", err)
	}
	var docs []doctorDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode doctors: %w", err)
	}
	out := make([]*Doctor, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].model())
	}
	return out, nil
}

func (r *doctorRepoMongo) Create(ctx context.Context, d *Doctor) (*store.InsertResult, error) {
	res, err := r.coll.InsertOne(ctx, &doctorDoc{Name: d.Name, Email: d.Email, Specialty: d.Specialty, Image: d.Image})
	if err != nil {
		return nil, fmt.Errorf("insert doctor: %w", err)
	}
	d.ID = docstore.IDString(res.InsertedID)
	return docstore.InsertResult(res), nil
}

func (r *doctorRepoMongo) Delete(ctx context.Context, id string) (*store.DeleteResult, error) {
	oid, ok := docstore.ObjectID(id)
	if !ok {
		return &store.DeleteResult{Acknowledged: true}, nil
	}
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return nil, fmt.Errorf("delete doctor %s: %w", id, err)
	}
	return docstore.DeleteResult(res), nil
}
