// Package mongodb implements a storage provider on a MongoDB cluster.
// Backend configs, queued jobs, statuses, results and public keys each
// live in their own collection of the "qlued" database.
package mongodb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alqor-ug/qlued-go/pkg/schemes"
	"github.com/alqor-ug/qlued-go/pkg/signing"
)

const databaseName = "qlued"

// Storage talks to a MongoDB deployment. Job documents carry "device",
// "username" and "job_id" fields next to the payload so they can be
// addressed without path semantics and stay scoped to the submitting
// user.
type Storage struct {
	client            *mongo.Client
	operationalWindow time.Duration
}

// New connects to the cluster described by the login information.
func New(login schemes.MongodbLogin, operationalWindow time.Duration) (*Storage, error) {
	uri, err := connectionURI(login)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb: connecting: %w", err)
	}
	return &Storage{client: client, operationalWindow: operationalWindow}, nil
}

func connectionURI(login schemes.MongodbLogin) (string, error) {
	u, err := url.Parse(login.DatabaseURL)
	if err != nil {
		return "", fmt.Errorf("mongodb: parsing database url: %w", err)
	}
	u.User = url.UserPassword(login.Username, login.Password)
	return u.String(), nil
}

// Close tears down the underlying connection pool.
func (s *Storage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Storage) collection(name string) *mongo.Collection {
	return s.client.Database(databaseName).Collection(name)
}

func (s *Storage) UploadConfig(ctx context.Context, config *schemes.BackendConfig, device string) error {
	stored := *config
	stored.Operational = false
	stored.URL = ""
	doc, err := toDoc(&stored)
	if err != nil {
		return err
	}
	doc["device"] = device
	_, err = s.collection("configs").ReplaceOne(
		ctx,
		bson.M{"device": device},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (s *Storage) GetConfig(ctx context.Context, device string) (*schemes.BackendConfig, error) {
	var config schemes.BackendConfig
	res := s.collection("configs").FindOne(ctx, bson.M{"device": device})
	if err := decodeDoc(res, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

func (s *Storage) DeleteConfig(ctx context.Context, device string) error {
	_, err := s.collection("configs").DeleteOne(ctx, bson.M{"device": device})
	return err
}

func (s *Storage) GetBackends(ctx context.Context) ([]string, error) {
	values, err := s.collection("configs").Distinct(ctx, "device", bson.M{})
	if err != nil {
		return nil, err
	}
	var backends []string
	for _, v := range values {
		if name, ok := v.(string); ok {
			backends = append(backends, name)
		}
	}
	return backends, nil
}

func (s *Storage) GetBackendStatus(ctx context.Context, device string) (*schemes.BackendStatus, error) {
	config, err := s.GetConfig(ctx, device)
	if err != nil {
		return nil, err
	}
	pending, err := s.collection("queued").CountDocuments(ctx, bson.M{"device": device})
	if err != nil {
		return nil, err
	}
	return &schemes.BackendStatus{
		BackendName:    device,
		BackendVersion: config.Version,
		Operational:    s.operational(ctx, device),
		PendingJobs:    int(pending),
		StatusMsg:      "",
	}, nil
}

func (s *Storage) operational(ctx context.Context, device string) bool {
	var heartbeat struct {
		LastQueued time.Time `bson:"last_queue_check"`
	}
	res := s.collection("heartbeats").FindOne(ctx, bson.M{"device": device})
	if err := res.Decode(&heartbeat); err != nil {
		return false
	}
	return time.Since(heartbeat.LastQueued) <= s.operationalWindow
}

func (s *Storage) TimestampQueue(ctx context.Context, device string) error {
	_, err := s.collection("heartbeats").ReplaceOne(
		ctx,
		bson.M{"device": device},
		bson.M{"device": device, "last_queue_check": time.Now().UTC()},
		options.Replace().SetUpsert(true),
	)
	return err
}

func (s *Storage) UploadJob(ctx context.Context, job json.RawMessage, device, username string) (string, error) {
	jobID := schemes.NewJobID()
	var payload bson.M
	if err := bson.UnmarshalExtJSON(job, true, &payload); err != nil {
		return "", fmt.Errorf("mongodb: decoding job payload: %w", err)
	}
	doc := bson.M{"device": device, "username": username, "job_id": jobID, "payload": payload}
	if _, err := s.collection("queued").InsertOne(ctx, doc); err != nil {
		return "", err
	}
	return jobID, nil
}

func (s *Storage) UploadStatus(ctx context.Context, device, username, jobID string) (*schemes.StatusMsg, error) {
	status := schemes.InitStatus(jobID)
	doc, err := toDoc(status)
	if err != nil {
		return nil, err
	}
	doc["device"] = device
	doc["username"] = username
	if _, err := s.collection("status").InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return status, nil
}

func (s *Storage) GetStatus(ctx context.Context, device, username, jobID string) (*schemes.StatusMsg, error) {
	var status schemes.StatusMsg
	res := s.collection("status").FindOne(ctx, bson.M{"device": device, "username": username, "job_id": jobID})
	if err := decodeDoc(res, &status); err != nil {
		detail := fmt.Sprintf("The job %s was not found on the backend %s.", jobID, device)
		return schemes.ErrorStatus(jobID, detail), nil
	}
	return &status, nil
}

func (s *Storage) GetResult(ctx context.Context, device, username, jobID string) (*schemes.Result, error) {
	var result schemes.Result
	res := s.collection("results").FindOne(ctx, bson.M{"device": device, "username": username, "job_id": jobID})
	if err := decodeDoc(res, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Storage) UploadPublicKey(ctx context.Context, jwk *signing.PublicJWK, role string) error {
	doc, err := toDoc(jwk)
	if err != nil {
		return err
	}
	doc["role"] = role
	_, err = s.collection("pks").ReplaceOne(
		ctx,
		bson.M{"kid": jwk.Kid},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (s *Storage) DeletePublicKey(ctx context.Context, kid string) error {
	_, err := s.collection("pks").DeleteOne(ctx, bson.M{"kid": kid})
	return err
}

// toDoc converts a JSON-tagged struct into a bson document so the field
// names on the wire stay identical across storage providers.
func toDoc(v interface{}) (bson.M, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.UnmarshalExtJSON(raw, true, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func decodeDoc(res *mongo.SingleResult, v interface{}) error {
	var doc bson.M
	if err := res.Decode(&doc); err != nil {
		return err
	}
	delete(doc, "_id")
	delete(doc, "device")
	delete(doc, "username")
	raw, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
