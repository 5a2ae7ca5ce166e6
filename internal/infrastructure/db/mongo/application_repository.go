package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jobtrackr/job-trackr/internal/core/domain"
	"github.com/jobtrackr/job-trackr/internal/core/ports"
)

const collectionApplications = "applications"

type ApplicationRepository struct {
	col *mongo.Collection
}

func NewApplicationRepository(db *mongo.Database) *ApplicationRepository {
	return &ApplicationRepository{col: db.Collection(collectionApplications)}
}

// applicationDoc is the stored shape. UserID is interface{} because legacy
// documents carry the owner as a plain string while new ones carry a typed
// ObjectID; both decode through it.
type applicationDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      interface{}        `bson:"user_id"`
	Company     string             `bson:"company"`
	Role        string             `bson:"role"`
	Status      string             `bson:"status"`
	Deadline    string             `bson:"deadline,omitempty"`
	AppliedDate string             `bson:"applied_date,omitempty"`
	Link        string             `bson:"link,omitempty"`
	Notes       string             `bson:"notes,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

// Insert stores a new application document. The owner reference is written
// in its canonical typed form whenever the id is a valid ObjectID hex.
func (r *ApplicationRepository) Insert(ctx context.Context, app *domain.Application) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := applicationDoc{
		UserID:      ownerValue(app.UserID),
		Company:     app.Company,
		Role:        app.Role,
		Status:      string(app.Status),
		Deadline:    app.Deadline,
		AppliedDate: app.AppliedDate,
		Link:        app.Link,
		Notes:       app.Notes,
		CreatedAt:   app.CreatedAt,
		UpdatedAt:   app.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.New("mongo: unexpected inserted id type")
	}
	return oid.Hex(), nil
}

// FindByID retrieves one application scoped to (id AND owner). A malformed
// id, a missing document, and a foreign owner all collapse into
// domain.ErrApplicationNotFound.
func (r *ApplicationRepository) FindByID(ctx context.Context, id, userID string) (*domain.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc applicationDoc
	err := r.col.FindOne(ctx, scopedFilter(id, userID)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, err
	}
	return fromDoc(&doc), nil
}

// List returns one page of the user's applications matching filter, plus
// the total match count before pagination.
func (r *ApplicationRepository) List(ctx context.Context, f ports.ListApplicationsFilter) ([]*domain.Application, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"user_id": ownerFilter(f.UserID)}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"company": re},
			bson.M{"role": re},
		}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	sortSpec := bson.D{{Key: "updated_at", Value: -1}}
	if f.Sort == "deadline" {
		sortSpec = bson.D{{Key: "deadline", Value: 1}}
	}

	cur, err := r.col.Find(ctx, filter, options.Find().
		SetSort(sortSpec).
		SetSkip(f.Skip).
		SetLimit(f.Limit))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var apps []*domain.Application
	for cur.Next(ctx) {
		var doc applicationDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, err
		}
		apps = append(apps, fromDoc(&doc))
	}
	if err := cur.Err(); err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

// Update replaces the editable fields of the (id AND owner) match.
func (r *ApplicationRepository) Update(ctx context.Context, app *domain.Application) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, scopedFilter(app.ID, app.UserID), bson.M{"$set": bson.M{
		"company":      app.Company,
		"role":         app.Role,
		"status":       string(app.Status),
		"deadline":     app.Deadline,
		"applied_date": app.AppliedDate,
		"link":         app.Link,
		"notes":        app.Notes,
		"updated_at":   app.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrApplicationNotFound
	}
	return nil
}

// SetStatus updates only status and updated_at on the (id AND owner) match.
func (r *ApplicationRepository) SetStatus(ctx context.Context, id, userID string, status domain.Status, updatedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, scopedFilter(id, userID), bson.M{"$set": bson.M{
		"status":     string(status),
		"updated_at": updatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrApplicationNotFound
	}
	return nil
}

// Delete removes the (id AND owner) match and reports how many documents
// were removed.
func (r *ApplicationRepository) Delete(ctx context.Context, id, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, scopedFilter(id, userID))
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByStatus groups all of the user's applications by their lowercased
// raw status value. Alias merging happens in the service layer.
func (r *ApplicationRepository) CountByStatus(ctx context.Context, userID string) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": ownerFilter(userID)}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$toLower": "$status"},
			"count": bson.M{"$sum": 1},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	counts := make(map[string]int64)
	for cur.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			Count  int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.Status] = row.Count
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// Upcoming returns the user's non-terminal applications with a deadline in
// [from, to] inclusive, ascending, capped at limit. Deadlines are canonical
// YYYY-MM-DD strings, so lexicographic range matching is date order.
func (r *ApplicationRepository) Upcoming(ctx context.Context, userID, from, to string, limit int64) ([]domain.UpcomingApplication, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"user_id":  ownerFilter(userID),
		"deadline": bson.M{"$gte": from, "$lte": to},
		"status":   bson.M{"$nin": bson.A{string(domain.StatusRejected), string(domain.StatusAccepted)}},
	}

	cur, err := r.col.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "deadline", Value: 1}}).
		SetLimit(limit).
		SetProjection(bson.M{"company": 1, "role": 1, "deadline": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.UpcomingApplication
	for cur.Next(ctx) {
		var item domain.UpcomingApplication
		if err := cur.Decode(&item); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// EnsureIndexes creates the indexes backing the owner scope, the status
// aggregation, and the deadline range query.
func (r *ApplicationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "deadline", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// ownerValue is the canonical stored form of an owner reference: the typed
// identifier when the id is valid ObjectID hex, the raw string otherwise.
func ownerValue(userID string) interface{} {
	if oid, err := primitive.ObjectIDFromHex(userID); err == nil {
		return oid
	}
	return userID
}

// ownerFilter matches an owner reference stored in either representation.
// Dual-read compatibility stays until the one-time backfill has migrated
// every legacy string owner to an ObjectID.
func ownerFilter(userID string) interface{} {
	if oid, err := primitive.ObjectIDFromHex(userID); err == nil {
		return bson.M{"$in": bson.A{oid, userID}}
	}
	return userID
}

// idFilter matches a document id in either representation, mirroring
// ownerFilter for the _id field.
func idFilter(id string) interface{} {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"$in": bson.A{oid, id}}
	}
	return id
}

func scopedFilter(id, userID string) bson.M {
	return bson.M{"_id": idFilter(id), "user_id": ownerFilter(userID)}
}

func ownerString(v interface{}) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return ""
	}
}

func fromDoc(doc *applicationDoc) *domain.Application {
	return &domain.Application{
		ID:          doc.ID.Hex(),
		UserID:      ownerString(doc.UserID),
		Company:     doc.Company,
		Role:        doc.Role,
		Status:      domain.Status(doc.Status),
		Deadline:    doc.Deadline,
		AppliedDate: doc.AppliedDate,
		Link:        doc.Link,
		Notes:       doc.Notes,
		CreatedAt:   doc.CreatedAt.UTC(),
		UpdatedAt:   doc.UpdatedAt.UTC(),
	}
}
