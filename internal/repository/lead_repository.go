package repository

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/leadflow/sequencer-backend/internal/model"
)

// LeadRepositoryInterface defines the read/merge surface the dispatcher and
// the HTTP shim need. Leads are owned by the CRM; we never delete them.
type LeadRepositoryInterface interface {
	GetByID(ctx context.Context, id string) (*model.Lead, error)
	Merge(ctx context.Context, id string, fields map[string]string) error
}

type LeadRepository struct {
	Coll *mongo.Collection
}

// ConnectMongo opens the document database holding leads.
func ConnectMongo(uri string) (*mongo.Client, error) {
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	log.Println("✅ Connected to lead store")
	return client, nil
}

// GetByID fetches a lead; (nil, nil) when it does not exist.
func (r *LeadRepository) GetByID(ctx context.Context, id string) (*model.Lead, error) {
	var lead model.Lead
	err := r.Coll.FindOne(ctx, bson.M{"_id": id}).Decode(&lead)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &lead, nil
}

// Merge set-merges fields into the lead document, creating it if needed.
// Attributes not named are left untouched.
func (r *LeadRepository) Merge(ctx context.Context, id string, fields map[string]string) error {
	set := bson.M{}
	for k, v := range fields {
		set["fields."+k] = v
	}
	if len(set) == 0 {
		return nil
	}
	_, err := r.Coll.UpdateByID(ctx, id, bson.M{"$set": set}, options.Update().SetUpsert(true))
	return err
}
