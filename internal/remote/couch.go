package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-kivik/kivik/v4"

	"countme-core/internal/domain"
)

// CouchStore implements DocumentStore on a CouchDB database. Documents are
// keyed "{collection}:{id}" and carry explicit collection and user_id fields
// so List can filter server-side with a Mango selector.
type CouchStore struct {
	client *kivik.Client
	dbName string
}

func NewCouchStore(client *kivik.Client, dbName string) *CouchStore {
	return &CouchStore{client: client, dbName: dbName}
}

// EnsureDatabase creates the backing database when it does not exist yet.
func (r *CouchStore) EnsureDatabase(ctx context.Context) error {
	exists, err := r.client.DBExists(ctx, r.dbName)
	if err != nil {
		return fmt.Errorf("check database %s: %w", r.dbName, err)
	}
	if exists {
		return nil
	}
	if err := r.client.CreateDB(ctx, r.dbName); err != nil {
		return fmt.Errorf("create database %s: %w", r.dbName, err)
	}
	return nil
}

func docKey(collection domain.EntityType, id string) string {
	return fmt.Sprintf("%s:%s", collection, id)
}

func (r *CouchStore) Get(ctx context.Context, collection domain.EntityType, id string) (json.RawMessage, error) {
	db := r.client.DB(r.dbName)

	var raw json.RawMessage
	row := db.Get(ctx, docKey(collection, id))
	if err := row.ScanDoc(&raw); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return raw, nil
}

func (r *CouchStore) List(ctx context.Context, collection domain.EntityType, userID string) ([]json.RawMessage, error) {
	db := r.client.DB(r.dbName)

	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"collection": string(collection),
			"user_id":    userID,
		},
	}

	rows := db.Find(ctx, query)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s for user %s: %w", collection, userID, err)
	}
	defer rows.Close()

	var docs []json.RawMessage
	for rows.Next() {
		var raw json.RawMessage
		if err := rows.ScanDoc(&raw); err != nil {
			continue
		}
		docs = append(docs, raw)
	}
	return docs, nil
}

// Put upserts: when a document already exists its revision is carried over so
// CouchDB accepts the write as an update instead of a conflict.
func (r *CouchStore) Put(ctx context.Context, collection domain.EntityType, id string, doc domain.Document) error {
	db := r.client.DB(r.dbName)
	key := docKey(collection, id)

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", collection, id, err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return fmt.Errorf("remarshal %s/%s: %w", collection, id, err)
	}
	fields["collection"] = string(collection)

	var existing map[string]interface{}
	row := db.Get(ctx, key)
	if err := row.ScanDoc(&existing); err == nil {
		if rev, ok := existing["_rev"]; ok {
			fields["_rev"] = rev
		}
	} else if kivik.HTTPStatus(err) != http.StatusNotFound {
		return fmt.Errorf("fetch existing %s/%s: %w", collection, id, err)
	}

	if _, err := db.Put(ctx, key, fields); err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, id, err)
	}
	return nil
}

// Delete is idempotent: deleting an absent document returns ErrNotFound,
// which callers may treat as success.
func (r *CouchStore) Delete(ctx context.Context, collection domain.EntityType, id string) error {
	db := r.client.DB(r.dbName)
	key := docKey(collection, id)

	var existing map[string]interface{}
	row := db.Get(ctx, key)
	if err := row.ScanDoc(&existing); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
		}
		return fmt.Errorf("fetch %s/%s for delete: %w", collection, id, err)
	}

	rev, _ := existing["_rev"].(string)
	if _, err := db.Delete(ctx, key, rev); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}
