//cmd/seeder/main.go
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/leadflow/sequencer-backend/internal/config"
	"github.com/leadflow/sequencer-backend/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	seedFiles := []string{
		"seed/sequence_jobs.sql",
		"seed/delivery_reports.sql",
	}

	for _, file := range seedFiles {
		content, err := os.ReadFile(file)
		if err != nil {
			log.Fatalf("failed to read %s: %v", file, err)
		}

		_, err = db.Exec(string(content))
		if err != nil {
			log.Fatalf("failed to execute %s: %v", file, err)
		}
		fmt.Printf("Seeded: %s\n", file)
	}

	mongoClient, err := repository.ConnectMongo(cfg.MongoURI)
	if err != nil {
		log.Fatal(err)
	}
	coll := mongoClient.Database(cfg.MongoDB).Collection("leads")

	leads := []struct {
		id     string
		fields bson.M
	}{
		{"lead-001", bson.M{"nombre": "Juan Perez", "telefono": "5512345678", "ciudad": "CDMX"}},
		{"lead-002", bson.M{"nombre": "Ana Maria Lopez", "whatsapp": "+525598765432", "producto": "plan anual"}},
		{"lead-003", bson.M{"nombre": "Luis Torres", "phone": "525511122233"}},
	}
	ctx := context.Background()
	for _, l := range leads {
		_, err := coll.UpdateByID(ctx, l.id,
			bson.M{"$set": bson.M{"fields": l.fields}},
			options.Update().SetUpsert(true))
		if err != nil {
			log.Fatalf("failed to seed lead %s: %v", l.id, err)
		}
		fmt.Printf("Seeded lead: %s\n", l.id)
	}

	fmt.Println("Database seeding completed successfully!")
}
