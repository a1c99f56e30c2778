package database

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// Used to create a singleton object of MongoDB client.
	// Initialized and exposed through StartMongoDB()
	mongoClient *mongo.Client
	// Used during creation of singleton client object in StartMongoDB()
	clientInstanceError error
	// Used to execute client creation procedure only once
	mongoOnce sync.Once
)

// StartMongoDB connects the attachment blob database. Mongo only backs GridFS;
// todos, tags and users live in the relational store.
func StartMongoDB(uri, database string) (*mongo.Database, error) {
	if uri == "" {
		return nil, errors.New("you must set your 'MONGODB_URI' environmental variable")
	}
	if database == "" {
		return nil, errors.New("you must set your 'DATABASE' environmental variable")
	}

	// Perform connection creation operation only once.
	mongoOnce.Do(func() {
		clientOptions := options.Client().ApplyURI(uri)
		ctx, cancel := NewDBContext(10 * time.Second)
		defer cancel()

		client, err := mongo.Connect(ctx, clientOptions)
		if err != nil {
			clientInstanceError = err
			return
		}
		// Check the connection
		if err = client.Ping(ctx, nil); err != nil {
			clientInstanceError = err
			return
		}
		mongoClient = client
	})

	if clientInstanceError != nil {
		return nil, clientInstanceError
	}
	return mongoClient.Database(database), nil
}

func CloseMongoDB(ctx context.Context) error {
	if mongoClient == nil {
		return nil
	}
	return mongoClient.Disconnect(ctx)
}
