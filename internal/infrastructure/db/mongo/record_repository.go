package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/workflowlive/request-tracker/internal/core/domain"
	"github.com/workflowlive/request-tracker/internal/core/ports"
)

const collectionRecords = "records"

type RecordRepository struct {
	col *mongo.Collection
}

func NewRecordRepository(db *mongo.Database) *RecordRepository {
	return &RecordRepository{col: db.Collection(collectionRecords)}
}

// recordDoc is the storage shape. The ObjectID is owned by the store; domain
// records carry it as a hex string.
type recordDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	InitiatorName string             `bson:"initiator_name"`
	Name          string             `bson:"name"`
	Description   string             `bson:"description"`
	Type          string             `bson:"type"`
	Product       string             `bson:"product"`
	Status        string             `bson:"status"`
	Deadline      time.Time          `bson:"deadline"`
	AssignedTo    string             `bson:"assigned_to,omitempty"`
	CreatedAt     time.Time          `bson:"created_at"`
}

// Insert persists a new record and returns the stored copy with its assigned id.
func (r *RecordRepository) Insert(ctx context.Context, rec *domain.Record) (*domain.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toDoc(rec))
	if err != nil {
		return nil, fmt.Errorf("insert record: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert record: unexpected id type %T", res.InsertedID)
	}

	stored := *rec
	stored.ID = oid.Hex()
	return &stored, nil
}

// FindAll returns records matching scope, sorted by deadline ascending.
func (r *RecordRepository) FindAll(ctx context.Context, scope ports.RecordScope) ([]domain.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if scope.AssignedTo != "" {
		filter["assigned_to"] = scope.AssignedTo
	}

	opts := options.Find().SetSort(bson.D{{Key: "deadline", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find records: %w", err)
	}
	defer cur.Close(ctx)

	var records []domain.Record
	for cur.Next(ctx) {
		var doc recordDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		records = append(records, fromDoc(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// EnsureIndexes creates the indexes backing the sorted read path and the
// role-scoped filter.
func (r *RecordRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "deadline", Value: 1}}},
		{Keys: bson.D{{Key: "assigned_to", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func toDoc(rec *domain.Record) recordDoc {
	return recordDoc{
		InitiatorName: rec.InitiatorName,
		Name:          rec.Name,
		Description:   rec.Description,
		Type:          string(rec.Type),
		Product:       rec.Product,
		Status:        string(rec.Status),
		Deadline:      rec.Deadline.UTC(),
		AssignedTo:    rec.AssignedTo,
		CreatedAt:     rec.CreatedAt.UTC(),
	}
}

func fromDoc(doc recordDoc) domain.Record {
	return domain.Record{
		ID:            doc.ID.Hex(),
		InitiatorName: doc.InitiatorName,
		Name:          doc.Name,
		Description:   doc.Description,
		Type:          domain.RecordType(doc.Type),
		Product:       doc.Product,
		Status:        domain.RecordStatus(doc.Status),
		Deadline:      doc.Deadline.UTC(),
		AssignedTo:    doc.AssignedTo,
		CreatedAt:     doc.CreatedAt.UTC(),
	}
}
