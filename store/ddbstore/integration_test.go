//go:build integration
// +build integration

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddbstore_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/joho/godotenv"

	"github.com/suparena/entitycodec"
	"github.com/suparena/entitycodec/errors"
	"github.com/suparena/entitycodec/plugin"
	"github.com/suparena/entitycodec/plugins/strfmtcodec"
	"github.com/suparena/entitycodec/store/ddbstore"
)

type IntegrationUser struct {
	entitycodec.SimpleMapping
	ID        string          `store:"id"`
	Email     string          `store:"email"`
	Scores    []float64       `store:"scores"`
	CreatedAt strfmt.DateTime `store:"created_at"`
}

func setupTestStore(t *testing.T, opts ...ddbstore.Option) *ddbstore.Store {
	if err := godotenv.Load(); err != nil {
		t.Log("No .env file found, proceeding with environment variables")
	}

	tableName := os.Getenv("AWS_DDB_TABLE")
	if tableName == "" {
		t.Skip("AWS_DDB_TABLE not set, skipping integration test")
	}

	client, err := ddbstore.NewClient(context.Background(),
		os.Getenv("AWS_ACCESS_KEY"), os.Getenv("AWS_SECRET_KEY"), os.Getenv("AWS_REGION"), os.Getenv("AWS_DDB_ENDPOINT"))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return ddbstore.New(client, tableName, append([]ddbstore.Option{ddbstore.WithKeyTemplates("ITEST#{key}", "TREE")}, opts...)...)
}

func newEngine(t *testing.T, s *ddbstore.Store) *entitycodec.Engine {
	c := plugin.NewCatalog()
	if err := c.Install(plugin.SaveGroup, "github.com/go-openapi/strfmt", strfmtcodec.Unit); err != nil {
		t.Fatal(err)
	}
	if err := c.Install(plugin.LoadGroup, "strfmt", strfmtcodec.Unit); err != nil {
		t.Fatal(err)
	}
	e := entitycodec.NewEngine(entitycodec.WithOpener(s), entitycodec.WithPlugins(c))
	if err := entitycodec.SubscribeTo[IntegrationUser](e.Registry(), "itest.User"); err != nil {
		t.Fatal(err)
	}
	return e
}

func TestIntegrationRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	s := setupTestStore(t)
	e := newEngine(t, s)
	key := fmt.Sprintf("user-%d", time.Now().UnixNano())

	user := IntegrationUser{
		ID:        key,
		Email:     "test@example.com",
		Scores:    []float64{1.5, 2.25},
		CreatedAt: strfmt.DateTime(time.Now().UTC().Truncate(time.Millisecond)),
	}
	if err := e.Save(user, key); err != nil {
		t.Fatalf("Failed to save user: %v", err)
	}

	got, err := entitycodec.LoadAs[IntegrationUser](e, key, nil)
	if err != nil {
		t.Fatalf("Failed to load user: %v", err)
	}
	if got.ID != user.ID || got.Email != user.Email || len(got.Scores) != 2 {
		t.Errorf("Loaded user doesn't match: got %+v, want %+v", got, user)
	}
	if !time.Time(got.CreatedAt).Equal(time.Time(user.CreatedAt)) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, user.CreatedAt)
	}

	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Failed to delete tree: %v", err)
	}
	if _, err := e.Load(key); !errors.IsNotFound(err) {
		t.Errorf("Expected not found error, got: %v", err)
	}
}

func TestIntegrationNoOverwrite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	s := setupTestStore(t, ddbstore.WithNoOverwrite())
	e := newEngine(t, s)
	key := fmt.Sprintf("guard-%d", time.Now().UnixNano())
	defer s.Delete(ctx, key)

	if err := e.Save([]any{1, "one"}, key); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	if err := e.Save("again", key); !errors.IsConditionFailed(err) {
		t.Errorf("Expected condition failed error, got: %v", err)
	}
}
