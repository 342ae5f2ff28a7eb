/*
Package ddbstore keeps hierarchical stores as DynamoDB items.

Each tree is one item. Its key is expanded from the PK and SK templates, by
default "TREE#{key}", and the tree itself is a nested map attribute:

	PK             S  TREE#run-42
	SK             S  TREE#run-42
	EntityType     S  entitycodec.Tree
	FormatVersion  S  1.0.0
	UpdatedAt      S  2025-01-02T15:04:05Z
	Tree           M  {"g": {"type_tag": {"k": "string", "v": "builtins.dict"}, ...}}

A tree must fit the 400 KB DynamoDB item limit. Throttled calls are retried
with exponential backoff.

	client, err := ddbstore.NewClient(ctx, accessKey, secretKey, "us-east-1", "")
	s := ddbstore.New(client, "trees")
	err = entitycodec.NewEngine(entitycodec.WithOpener(s)).Save(obj, "run-42")
*/
package ddbstore
