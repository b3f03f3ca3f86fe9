package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/platefront/platefront/backend/admin-console/internal/database"
	"github.com/platefront/platefront/backend/admin-console/internal/roster"
)

// seed inserts demo user records so the dashboard has something to show
// during development. Registration dates are spread over the past weeks
// and a few records deliberately omit name or createdAt.
func main() {
	count := flag.Int("count", 25, "number of demo users to insert")
	days := flag.Int("days", 14, "spread registrations over this many past days")
	flag.Parse()

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		log.Fatal("MONGODB_URI is required")
	}
	dbName := os.Getenv("MONGODB_DATABASE")
	if dbName == "" {
		dbName = "platefront"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := database.ConnectMongo(ctx, mongoURI, 10*time.Second)
	if err != nil {
		log.Fatalf("cannot connect to MongoDB: %v", err)
	}
	defer func() { _ = client.Disconnect(ctx) }()

	col := client.Database(dbName).Collection(database.UsersCollection)

	firsts := []string{"Ada", "Grace", "Alan", "Edsger", "Barbara", "Donald", "Ken", "Dennis", "Leslie", "Tony"}
	lasts := []string{"Lovelace", "Hopper", "Turing", "Dijkstra", "Liskov", "Knuth", "Thompson", "Ritchie", "Lamport", "Hoare"}

	docs := make([]interface{}, 0, *count)
	now := time.Now().UTC()
	for i := 0; i < *count; i++ {
		name := fmt.Sprintf("%s %s", firsts[rand.Intn(len(firsts))], lasts[rand.Intn(len(lasts))])
		u := roster.UserRecord{
			ID:    fmt.Sprintf("demo-%04d", i),
			Name:  name,
			Email: fmt.Sprintf("demo%04d@example.com", i),
		}
		if i%9 == 0 {
			u.Name = ""
		}
		if i%11 != 10 {
			at := now.AddDate(0, 0, -rand.Intn(*days)).Add(-time.Duration(rand.Intn(86400)) * time.Second)
			u.CreatedAt = &at
		}
		docs = append(docs, u)
	}

	if _, err := col.DeleteMany(ctx, bson.M{"_id": bson.M{"$regex": "^demo-"}}); err != nil {
		log.Printf("warning: cleanup of previous demo users failed: %v", err)
	}
	res, err := col.InsertMany(ctx, docs)
	if err != nil {
		log.Fatalf("insert demo users: %v", err)
	}
	log.Printf("inserted %d demo users into %s.%s", len(res.InsertedIDs), dbName, database.UsersCollection)
}
