/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddbstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/blang/semver/v4"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	ecerrors "github.com/suparena/entitycodec/errors"
	"github.com/suparena/entitycodec/store"
	"github.com/suparena/entitycodec/store/memstore"
)

// EntityType is written into every item holding a tree.
const EntityType = "entitycodec.Tree"

const treeAttribute = "Tree"

var (
	// FormatVersion is the tree layout version written by this package.
	FormatVersion = semver.MustParse("1.0.0")

	compatible = semver.MustParseRange(">=1.0.0 <2.0.0")
)

// API is the subset of the DynamoDB client used by Store.
type API interface {
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
}

type itemHeader struct {
	PK            string `dynamodbav:"PK"`
	SK            string `dynamodbav:"SK"`
	EntityType    string `dynamodbav:"EntityType"`
	FormatVersion string `dynamodbav:"FormatVersion"`
	UpdatedAt     string `dynamodbav:"UpdatedAt"`
}

// Store keeps one tree per DynamoDB item. It implements store.Opener, where
// the path is the key substituted into the PK and SK templates.
type Store struct {
	client      API
	tableName   string
	indexMap    map[string]string
	ctx         context.Context
	noOverwrite bool
	maxRetries  uint64
	newBackOff  func() backoff.BackOff
	log         *zap.Logger
	now         func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithKeyTemplates sets the PK and SK templates. "{key}" is replaced by the path.
func WithKeyTemplates(pk, sk string) Option {
	return func(s *Store) {
		s.indexMap = map[string]string{"PK": pk, "SK": sk}
	}
}

// WithNoOverwrite makes Close fail instead of replacing an existing tree.
func WithNoOverwrite() Option {
	return func(s *Store) {
		s.noOverwrite = true
	}
}

// WithMaxRetries bounds the retries of throttled calls.
func WithMaxRetries(n uint64) Option {
	return func(s *Store) {
		s.maxRetries = n
	}
}

// WithBackOff sets the backoff policy factory used between retries.
func WithBackOff(f func() backoff.BackOff) Option {
	return func(s *Store) {
		s.newBackOff = f
	}
}

// WithContext sets the context used by Create and Open.
func WithContext(ctx context.Context) Option {
	return func(s *Store) {
		s.ctx = ctx
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// New creates a Store on table using client.
func New(client API, tableName string, opts ...Option) *Store {
	s := &Store{
		client:     client,
		tableName:  tableName,
		indexMap:   map[string]string{"PK": "TREE#{key}", "SK": "TREE#{key}"},
		ctx:        context.Background(),
		maxRetries: 5,
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
		log:        zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewClient initializes a DynamoDB client using static AWS credentials.
// A non-empty endpoint overrides the service endpoint, e.g. for DynamoDB Local.
func NewClient(ctx context.Context, awsAccessKey, awsSecretKey, awsRegion, endpoint string) (*sdk.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(awsRegion),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsAccessKey, awsSecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return sdk.NewFromConfig(cfg, func(o *sdk.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

func (s *Store) Create(key string) (store.File, error) {
	return s.CreateContext(s.ctx, key)
}

func (s *Store) Open(key string) (store.File, error) {
	return s.OpenContext(s.ctx, key)
}

// CreateContext starts a new tree for key; it is written on Close.
func (s *Store) CreateContext(ctx context.Context, key string) (*File, error) {
	keyMap, err := s.keyFor(key)
	if err != nil {
		return nil, err
	}
	return &File{File: memstore.New(), store: s, ctx: ctx, key: key, keyMap: keyMap, writable: true}, nil
}

// OpenContext reads the tree stored for key, read-only.
func (s *Store) OpenContext(ctx context.Context, key string) (*File, error) {
	keyMap, err := s.keyFor(key)
	if err != nil {
		return nil, err
	}

	var out *sdk.GetItemOutput
	err = s.retry(ctx, func() error {
		var err error
		out, err = s.client.GetItem(ctx, &sdk.GetItemInput{
			TableName:      &s.tableName,
			Key:            keyMap,
			ConsistentRead: aws.Bool(true),
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem failed: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return nil, ecerrors.NewNotFoundError("tree", key)
	}

	var header itemHeader
	if err := attributevalue.UnmarshalMap(out.Item, &header); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	if header.EntityType != EntityType {
		return nil, ecerrors.NewValidationError("EntityType", fmt.Sprintf("item %q does not hold a tree", key))
	}
	if err := checkVersion(header.FormatVersion); err != nil {
		return nil, err
	}
	root, err := treeFromAttribute(out.Item[treeAttribute])
	if err != nil {
		return nil, err
	}
	return &File{File: memstore.FromNode(root, true), store: s, ctx: ctx, key: key, keyMap: keyMap}, nil
}

// Delete removes the tree stored for key.
func (s *Store) Delete(ctx context.Context, key string) error {
	keyMap, err := s.keyFor(key)
	if err != nil {
		return err
	}
	err = s.retry(ctx, func() error {
		_, err := s.client.DeleteItem(ctx, &sdk.DeleteItemInput{
			TableName: &s.tableName,
			Key:       keyMap,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete item in DynamoDB: %w", err)
	}
	return nil
}

func (s *Store) put(ctx context.Context, key string, keyMap map[string]types.AttributeValue, root *memstore.Node) error {
	header := itemHeader{
		PK:            keyMap["PK"].(*types.AttributeValueMemberS).Value,
		SK:            keyMap["SK"].(*types.AttributeValueMemberS).Value,
		EntityType:    EntityType,
		FormatVersion: FormatVersion.String(),
		UpdatedAt:     s.now().UTC().Format(time.RFC3339),
	}
	av, err := attributevalue.MarshalMap(header)
	if err != nil {
		return fmt.Errorf("failed to marshal item header: %w", err)
	}
	tree, err := treeToAttribute(root)
	if err != nil {
		return err
	}
	av[treeAttribute] = tree

	input := &sdk.PutItemInput{
		TableName: &s.tableName,
		Item:      av,
	}
	if s.noOverwrite {
		input.ConditionExpression = aws.String("attribute_not_exists(PK)")
	}

	err = s.retry(ctx, func() error {
		_, err := s.client.PutItem(ctx, input)
		return err
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return ecerrors.NewConditionFailedError("create", "tree "+key+" already exists")
		}
		return fmt.Errorf("PutItem failed: %w", err)
	}
	s.log.Debug("Stored tree", zap.String("table", s.tableName), zap.String("key", key))
	return nil
}

func (s *Store) keyFor(key string) (map[string]types.AttributeValue, error) {
	if key == "" {
		return nil, ecerrors.NewValidationError("key", "tree key must not be empty")
	}
	return buildKeyFromExpanded(expandStringKey(s.indexMap, key))
}

func checkVersion(version string) error {
	v, err := semver.Parse(version)
	if err != nil {
		return ecerrors.NewValidationError("FormatVersion", err.Error())
	}
	if !compatible(v) {
		return ecerrors.NewValidationError("FormatVersion", "unsupported format version "+version)
	}
	return nil
}

// File is a tree buffered in memory and written back on Close.
type File struct {
	*memstore.File
	store    *Store
	ctx      context.Context
	key      string
	keyMap   map[string]types.AttributeValue
	writable bool
	closed   bool
}

func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if !f.writable {
		return nil
	}
	return f.store.put(f.ctx, f.key, f.keyMap, f.Node())
}
