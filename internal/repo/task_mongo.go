package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	dom "Tasker/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const tasksCollection = "tasks"

type taskDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	User        string             `bson:"user"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Status      string             `bson:"status"`
	Rating      *int               `bson:"rating,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d taskDocument) toDomain() dom.Task {
	return dom.Task{
		ID:          d.ID.Hex(),
		UserID:      d.User,
		Title:       d.Title,
		Description: d.Description,
		Status:      dom.Status(d.Status),
		Rating:      d.Rating,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// MongoTaskRepo implements TaskRepo on a MongoDB collection. Analytics run as
// aggregation pipelines on the server.
type MongoTaskRepo struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoTaskRepo(db *mongo.Database) *MongoTaskRepo {
	return &MongoTaskRepo{coll: db.Collection(tasksCollection), now: mongoNow}
}

// EnsureIndexes creates the owner/creation index used by List.
func (r *MongoTaskRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create tasks index: %w", err)
	}
	return nil
}

func (r *MongoTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	now := r.now()
	doc := taskDocument{
		ID:          primitive.NewObjectID(),
		User:        t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return dom.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoTaskRepo) GetByID(ctx context.Context, userID, id string) (dom.Task, error) {
	filter, ok := ownedFilter(userID, id)
	if !ok {
		return dom.Task{}, ErrNotFound
	}
	var doc taskDocument
	return oneDocument(&doc, r.coll.FindOne(ctx, filter).Decode(&doc))
}

func (r *MongoTaskRepo) List(ctx context.Context, userID string) ([]dom.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	var docs []taskDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	list := make([]dom.Task, 0, len(docs))
	for _, d := range docs {
		list = append(list, d.toDomain())
	}
	return list, nil
}

func (r *MongoTaskRepo) Update(ctx context.Context, userID, id string, patch dom.TaskPatch) (dom.Task, error) {
	return r.findOneAndSet(ctx, userID, id, patchSet(patch, r.now()))
}

func (r *MongoTaskRepo) SetRating(ctx context.Context, userID, id string, rating int) (dom.Task, error) {
	return r.findOneAndSet(ctx, userID, id, bson.M{"rating": rating, "updatedAt": r.now()})
}

func (r *MongoTaskRepo) Delete(ctx context.Context, userID, id string) (dom.Task, error) {
	filter, ok := ownedFilter(userID, id)
	if !ok {
		return dom.Task{}, ErrNotFound
	}
	var doc taskDocument
	return oneDocument(&doc, r.coll.FindOneAndDelete(ctx, filter).Decode(&doc))
}

func (r *MongoTaskRepo) Count(ctx context.Context, userID string) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"user": userID})
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

func (r *MongoTaskRepo) CountByStatus(ctx context.Context, userID string) ([]dom.StatusCount, error) {
	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := r.aggregate(ctx, countByStatusPipeline(userID), &rows); err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	out := make([]dom.StatusCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, dom.StatusCount{Status: dom.Status(row.Status), Count: row.Count})
	}
	return out, nil
}

func (r *MongoTaskRepo) RatingsByStatus(ctx context.Context, userID string) ([]dom.RatingSum, error) {
	var rows []struct {
		Status string `bson:"_id"`
		Sum    int64  `bson:"sum"`
		Count  int64  `bson:"count"`
	}
	if err := r.aggregate(ctx, ratingsByStatusPipeline(userID), &rows); err != nil {
		return nil, fmt.Errorf("ratings by status: %w", err)
	}
	out := make([]dom.RatingSum, 0, len(rows))
	for _, row := range rows {
		out = append(out, dom.RatingSum{Status: dom.Status(row.Status), Sum: row.Sum, Count: row.Count})
	}
	return out, nil
}

func (r *MongoTaskRepo) findOneAndSet(ctx context.Context, userID, id string, set bson.M) (dom.Task, error) {
	filter, ok := ownedFilter(userID, id)
	if !ok {
		return dom.Task{}, ErrNotFound
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc taskDocument
	err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc)
	return oneDocument(&doc, err)
}

func (r *MongoTaskRepo) aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error {
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

// patchSet is the $set document of an update: the supplied fields plus the
// new updatedAt.
func patchSet(patch dom.TaskPatch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	}
	return set
}

// countByStatusPipeline groups one owner's tasks by status, sorted by status.
func countByStatusPipeline(userID string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user": userID}}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
}

// ratingsByStatusPipeline sums the ratings of one owner's rated tasks per status.
// Unrated documents have no rating field and are matched out.
func ratingsByStatusPipeline(userID string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user": userID, "rating": bson.M{"$ne": nil}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"sum":   bson.M{"$sum": "$rating"},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
}

// ownedFilter matches the document by id and owner. ok is false when id is not
// an ObjectID, which can never match.
func ownedFilter(userID, id string) (bson.M, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	return bson.M{"_id": oid, "user": userID}, true
}

func oneDocument(doc *taskDocument, err error) (dom.Task, error) {
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	return doc.toDomain(), nil
}

// mongoNow truncates to milliseconds, the precision BSON dates keep.
func mongoNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
