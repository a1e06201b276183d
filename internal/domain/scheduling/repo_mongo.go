package scheduling

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

type treatmentDoc struct {
	ID    primitive.ObjectID `bson:"_id,omitempty"`
	Name  string             `bson:"name"`
	Slots []string           `bson:"slots"`
	Price *float64           `bson:"price,omitempty"`
}

func (d *treatmentDoc) model() *Treatment {
	return &Treatment{ID: d.ID.Hex(), Name: d.Name, Slots: d.Slots, Price: d.Price}
}

type bookingDoc struct {
	ID              primitive.ObjectID     `bson:"_id,omitempty"`
	Email           string                 `bson:"email"`
	AppointmentDate string                 `bson:"appointmentDate"`
	Treatment       string                 `bson:"treatment"`
	Slot            string                 `bson:"slot"`
	Extra           map[string]interface{} `bson:",inline"`
}

func newBookingDoc(b *Booking) *bookingDoc {
	return &bookingDoc{
		Email:           b.Email,
		AppointmentDate: b.AppointmentDate,
		Treatment:       b.Treatment,
		Slot:            b.Slot,
		Extra:           b.Extra,
	}
}

func (d *bookingDoc) model() *Booking {
	return &Booking{
		ID:              d.ID.Hex(),
		Email:           d.Email,
		AppointmentDate: d.AppointmentDate,
		Treatment:       d.Treatment,
		Slot:            d.Slot,
		Extra:           d.Extra,
	}
}

// =========== Treatment Repository ===========

type treatmentRepoMongo struct{ coll *mongo.Collection }

func NewTreatmentRepoMongo(database *mongo.Database) TreatmentRepository {
	return &treatmentRepoMongo{coll: database.Collection(docstore.Services)}
}

func (r *treatmentRepoMongo) List(ctx context.Context) ([]*Treatment, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find services: %w", err)
	}
	var docs []treatmentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode services: %w", err)
	}
	out := make([]*Treatment, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].model())
	}
	return out, nil
}

func (r *treatmentRepoMongo) ListNames(ctx context.Context) ([]*TreatmentName, error) {
	opts := options.Find().SetProjection(bson.D{{Key: "name", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find service names: %w", err)
	}
	var docs []treatmentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode service names: %w", err)
	}
	out := make([]*TreatmentName, 0, len(docs))
	for _, d := range docs {
		out = append(out, &TreatmentName{ID: d.ID.Hex(), Name: d.Name})
	}
	return out, nil
}

func (r *treatmentRepoMongo) GetByName(ctx context.Context, name string) (*Treatment, error) {
	var d treatmentDoc
	err := r.coll.FindOne(ctx, bson.D{{Key: "name", Value: name}}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find service %q: %w", name, err)
	}
	return d.model(), nil
}

func (r *treatmentRepoMongo) Create(ctx context.Context, t *Treatment) (*store.InsertResult, error) {
	res, err := r.coll.InsertOne(ctx, &treatmentDoc{Name: t.Name, Slots: t.Slots, Price: t.Price})
	if err != nil {
		return nil, fmt.Errorf("insert service: %w", err)
	}
	t.ID = docstore.IDString(res.InsertedID)
	return docstore.InsertResult(res), nil
}

// SetPriceAll runs updateMany without upsert, so an empty collection does not
// gain a nameless {price} document.
func (r *treatmentRepoMongo) SetPriceAll(ctx context.Context, price float64) (*store.UpdateResult, error) {
	res, err := r.coll.UpdateMany(ctx, bson.D{}, bson.D{{Key: "$set", Value: bson.D{{Key: "price", Value: price}}}})
	if err != nil {
		return nil, fmt.Errorf("update service prices: %w", err)
	}
	return docstore.UpdateResult(res), nil
}

// =========== Booking Repository ===========

type bookingRepoMongo struct{ coll *mongo.Collection }

func NewBookingRepoMongo(database *mongo.Database) BookingRepository {
	return &bookingRepoMongo{coll: database.Collection(docstore.Bookings)}
}

func (r *bookingRepoMongo) find(ctx context.Context, filter bson.D) ([]*Booking, error) {
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	var docs []bookingDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}
	out := make([]*Booking, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].model())
	}
	return out, nil
}

func (r *bookingRepoMongo) ListByDate(ctx context.Context, date string) ([]*Booking, error) {
	return r.find(ctx, bson.D{{Key: "appointmentDate", Value: date}})
}

func (r *bookingRepoMongo) ListByEmail(ctx context.Context, email string) ([]*Booking, error) {
	return r.find(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *bookingRepoMongo) GetByID(ctx context.Context, id string) (*Booking, error) {
	oid, ok := docstore.ObjectID(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	var d bookingDoc
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find booking %s: %w", id, err)
	}
	return d.model(), nil
}

func (r *bookingRepoMongo) CountMatching(ctx context.Context, email, date, treatment string) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{
		{Key: "appointmentDate", Value: date},
		{Key: "email", Value: email},
		{Key: "treatment", Value: treatment},
	})
	if err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return n, nil
}

func (r *bookingRepoMongo) Create(ctx context.Context, b *Booking) (*store.InsertResult, error) {
	res, err := r.coll.InsertOne(ctx, newBookingDoc(b))
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}
	b.ID = docstore.IDString(res.InsertedID)
	return docstore.InsertResult(res), nil
}
