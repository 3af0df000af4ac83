package surreal

import (
	"context"
	"fmt"
	"reflect"
	"regexp"

	"github.com/surrealdb/surrealdb.go"
)

// Client is a thin wrapper around the SurrealDB driver scoped to what
// the retrieval layer needs: parameterized queries and cosine search.
type Client struct {
	db *surrealdb.DB
}

// identifierRegex ensures that table names and fields only contain alphanumeric characters and underscores
var identifierRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

func validateIdentifier(s string) error {
	if !identifierRegex.MatchString(s) {
		return fmt.Errorf("invalid identifier: %s", s)
	}
	return nil
}

func NewClient(host, user, pass, namespace, database string) (*Client, error) {
	db, err := surrealdb.New(host)
	if err != nil {
		return nil, fmt.Errorf("failed to create surrealdb client: %w", err)
	}

	if _, err = db.SignIn(context.Background(), map[string]interface{}{
		"user": user,
		"pass": pass,
	}); err != nil {
		return nil, fmt.Errorf("failed to signin to surrealdb: %w", err)
	}

	if err = db.Use(context.Background(), namespace, database); err != nil {
		return nil, fmt.Errorf("failed to use surrealdb namespace/database: %w", err)
	}

	return &Client{db: db}, nil
}

func (c *Client) Close() {
	c.db.Close(context.Background())
}

// Query runs a SurrealQL statement and unwraps the driver's response
// envelope down to the result of the last statement.
func (c *Client) Query(sql string, vars map[string]interface{}) (interface{}, error) {
	result, err := surrealdb.Query[interface{}](context.Background(), c.db, sql, vars)
	if err != nil {
		return nil, err
	}

	rv := reflect.ValueOf(result)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}

	if rv.Kind() == reflect.Struct {
		resField := rv.FieldByName("Result")
		if resField.IsValid() {
			return resField.Interface(), nil
		}
	} else if rv.Kind() == reflect.Slice && rv.Len() > 0 {
		lastElem := rv.Index(rv.Len() - 1)
		if lastElem.Kind() == reflect.Struct {
			resField := lastElem.FieldByName("Result")
			if resField.IsValid() {
				return resField.Interface(), nil
			}
		}
	}

	return result, nil
}

// VectorSearch performs a cosine similarity search over vectorField.
func (c *Client) VectorSearch(table string, vectorField string, queryVector []float32, limit int) ([]interface{}, error) {
	// Validate identifiers to prevent injection; values go through vars.
	if err := validateIdentifier(table); err != nil {
		return nil, err
	}
	if err := validateIdentifier(vectorField); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT *, vector::similarity::cosine(%s, $query_vector) AS similarity
		FROM %s
		ORDER BY similarity DESC
		LIMIT %d;
	`, vectorField, table, limit)

	result, err := c.Query(query, map[string]interface{}{
		"query_vector": queryVector,
	})
	if err != nil {
		return nil, err
	}

	rows, ok := result.([]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected result type: %T", result)
	}

	return rows, nil
}
