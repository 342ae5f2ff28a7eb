/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddbstore

import (
	"regexp"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/entitycodec/errors"
)

// keyAttributes are the table's primary key attributes, each filled from a template.
var keyAttributes = []string{"PK", "SK"}

var macroPattern = regexp.MustCompile(`{([^}]+)}`)

// expandStringKey fills each template with the tree key. Every macro expands to
// the key; "{key}" is the conventional spelling.
func expandStringKey(indexMap map[string]string, key string) map[string]string {
	expanded := make(map[string]string, len(indexMap))
	for attr, template := range indexMap {
		expanded[attr] = macroPattern.ReplaceAllLiteralString(template, key)
	}
	return expanded
}

// buildKeyFromExpanded turns expanded templates into the item key. Both key
// attributes must expand to a non-empty string.
func buildKeyFromExpanded(expanded map[string]string) (map[string]types.AttributeValue, error) {
	item := make(map[string]types.AttributeValue, len(keyAttributes))
	for _, attr := range keyAttributes {
		v := expanded[attr]
		if v == "" {
			return nil, errors.NewValidationError(attr, "key template is missing or expands to an empty string")
		}
		item[attr] = &types.AttributeValueMemberS{Value: v}
	}
	return item, nil
}
