package services

import (
	"context"
	"crypto/tls"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nexcard/backend/internal/models"
)

type MongoProfileService struct {
	client      *mongo.Client
	db          *mongo.Database
	profilesCol *mongo.Collection
}

func NewMongoProfileService(ctx context.Context, mongoURI, dbName string) (*MongoProfileService, error) {
	// Atlas occasionally fails TLS negotiation in some environments unless we force TLS 1.2.
	tlsCfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		MaxVersion: tls.VersionTLS12,
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI).SetTLSConfig(tlsCfg))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	col := db.Collection("profiles")

	// Best-effort indexes.
	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	log.Printf("MongoDB connected (profiles): db=%s", dbName)
	return &MongoProfileService{
		client:      client,
		db:          db,
		profilesCol: col,
	}, nil
}

func (s *MongoProfileService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// GetOrCreate returns the user's profile, creating an empty one on first
// sight. Email is kept in sync with the verified auth token claim.
func (s *MongoProfileService) GetOrCreate(ctx context.Context, uid, email string) (*models.Profile, error) {
	now := time.Now()

	var prof models.Profile
	err := s.profilesCol.FindOne(ctx, bson.M{"user_id": uid}).Decode(&prof)
	if err == nil {
		if email != "" && prof.Email == "" {
			_, _ = s.profilesCol.UpdateOne(ctx, bson.M{"user_id": uid}, bson.M{
				"$set": bson.M{"email": email, "updated_at": now},
			})
			prof.Email = email
			prof.UpdatedAt = now
		}
		return &prof, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	prof = models.Profile{
		UserID:    uid,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err = s.profilesCol.InsertOne(ctx, prof)
	if err != nil {
		// If a race created it, fetch again.
		var retry models.Profile
		if err2 := s.profilesCol.FindOne(ctx, bson.M{"user_id": uid}).Decode(&retry); err2 == nil {
			return &retry, nil
		}
		return nil, err
	}
	return &prof, nil
}

func (s *MongoProfileService) Upsert(ctx context.Context, uid, email string, req *models.UpsertProfileRequest) (*models.Profile, error) {
	now := time.Now()

	set := bson.M{
		"updated_at": now,
	}
	if email != "" {
		set["email"] = email
	}
	if req.DisplayName != nil {
		set["display_name"] = *req.DisplayName
	}
	if req.PhotoURL != nil {
		set["photo_url"] = *req.PhotoURL
	}

	setOnInsert := bson.M{
		"user_id":    uid,
		"created_at": now,
	}

	_, err := s.profilesCol.UpdateOne(
		ctx,
		bson.M{"user_id": uid},
		bson.M{"$set": set, "$setOnInsert": setOnInsert},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, err
	}

	var prof models.Profile
	if err := s.profilesCol.FindOne(ctx, bson.M{"user_id": uid}).Decode(&prof); err != nil {
		return nil, err
	}
	return &prof, nil
}
