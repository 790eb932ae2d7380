package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/okian/lumen/internal/domain/model"
	"github.com/okian/lumen/pkg/logger"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection names.
const (
	usersCollection       = "users"
	transcriptsCollection = "transcripts"
)

const (
	defaultDatabase  = "lumen"
	defaultOpTimeout = 5 * time.Second
)

// MongoStore implements Store on MongoDB.
type MongoStore struct {
	client      *mongo.Client
	database    string
	opTimeout   time.Duration
	users       *mongo.Collection
	transcripts *mongo.Collection
	logger      logger.Logger
}

var _ Store = (*MongoStore)(nil)

// NewMongoStore connects to uri, verifies the connection and makes sure the
// unique email index exists.
func NewMongoStore(ctx context.Context, uri string, opts ...MongoOption) (*MongoStore, error) {
	s := &MongoStore{
		database:  defaultDatabase,
		opTimeout: defaultOpTimeout,
		logger:    logger.Get().Named("mongo"),
	}
	for _, opt := range opts {
		opt(s)
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	s.client = client

	pingCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(s.database)
	s.users = db.Collection(usersCollection)
	s.transcripts = db.Collection(transcriptsCollection)

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	s.logger.Info(ctx, "mongo store ready", logger.String("database", s.database))
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users.email index: %w", err)
	}

	_, err = s.transcripts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "timestamp", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create transcripts.timestamp index: %w", err)
	}
	return nil
}

// Create implements UserStore.
func (s *MongoStore) Create(ctx context.Context, u model.User) (model.User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Email == "" {
		return model.User{}, fmt.Errorf("%w: empty email", ErrInvalidRecord)
	}
	if u.ID == "" {
		u.ID = bson.NewObjectID().Hex()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	if _, err := s.users.InsertOne(ctx, u); err != nil {
		return model.User{}, insertUserError(err)
	}
	return u, nil
}

// FindByEmail implements UserStore.
func (s *MongoStore) FindByEmail(ctx context.Context, email string) (model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	var u model.User
	err := s.users.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&u)
	if err != nil {
		return model.User{}, findUserError(err)
	}
	return u, nil
}

// insertUserError maps a users insert failure onto the store errors. The
// unique email index is the only unique key besides _id.
func insertUserError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	return fmt.Errorf("insert user: %w", err)
}

func findUserError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return fmt.Errorf("find user: %w", err)
}

// Save implements TranscriptStore.
func (s *MongoStore) Save(ctx context.Context, t model.Transcript) error {
	if t.RequestID == "" {
		return fmt.Errorf("%w: empty request id", ErrInvalidRecord)
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	if _, err := s.transcripts.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("insert transcript: %w", err)
	}
	return nil
}

// Count implements TranscriptStore.
func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	n, err := s.transcripts.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count transcripts: %w", err)
	}
	return n, nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	return nil
}
