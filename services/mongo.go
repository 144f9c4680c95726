package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Nahnamehran/study-planner/config"
	"github.com/Nahnamehran/study-planner/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoStore keeps users and plans in two collections.
type MongoStore struct {
	client *mongo.Client
	users  *mongo.Collection
	plans  *mongo.Collection
	logger *zap.Logger
}

func NewMongoStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*MongoStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := client.Database(cfg.MongoDatabase)
	return &MongoStore{
		client: client,
		users:  db.Collection("users"),
		plans:  db.Collection("plans"),
		logger: logger,
	}, nil
}

// EnsureIndexes makes email lookups unique and owner listings cheap.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}
	_, err = s.plans.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create plans index: %w", err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// UpsertUser inserts the user unless one with the same email already exists,
// in which case the stored user is returned untouched.
func (s *MongoStore) UpsertUser(ctx context.Context, user *models.User) (*models.User, error) {
	u := *user
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	var stored models.User
	err := s.users.FindOneAndUpdate(ctx,
		bson.M{"email": u.Email},
		bson.M{"$setOnInsert": u},
		opts,
	).Decode(&stored)
	if err != nil {
		return nil, &models.PersistenceError{Op: "upsert user", Err: err}
	}
	return &stored, nil
}

func (s *MongoStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, &models.PersistenceError{Op: "get user", Err: err}
	}
	return &user, nil
}

func (s *MongoStore) SavePlan(ctx context.Context, record *models.PlanRecord) error {
	_, err := s.plans.ReplaceOne(ctx, bson.M{"_id": record.ID}, record, options.Replace().SetUpsert(true))
	if err != nil {
		return &models.PersistenceError{Op: "save plan", Err: err}
	}
	return nil
}

func (s *MongoStore) GetPlan(ctx context.Context, id string) (*models.PlanRecord, error) {
	var record models.PlanRecord
	err := s.plans.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("plan %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, &models.PersistenceError{Op: "get plan", Err: err}
	}
	return &record, nil
}

func (s *MongoStore) ListPlans(ctx context.Context, ownerID string) ([]models.PlanRecord, error) {
	cursor, err := s.plans.Find(ctx,
		bson.M{"ownerId": ownerID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, &models.PersistenceError{Op: "list plans", Err: err}
	}
	defer cursor.Close(ctx)

	plans := make([]models.PlanRecord, 0)
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, &models.PersistenceError{Op: "decode plans", Err: err}
	}
	return plans, nil
}
