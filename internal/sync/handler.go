package sync

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/nearcircle/backend/validators"
)

// docValidator enforces the struct tags on document snapshots before any
// relational write happens
var docValidator = validators.NewValidator()

// decodeDocument unmarshals a snapshot into a typed document and runs the
// struct-tag sanity check; a malformed document fails here and ends up in the
// failure registry instead of the relational mirror
func decodeDocument[T any](raw bson.Raw) (*T, error) {
	if len(raw) == 0 {
		return nil, errors.New("missing document snapshot")
	}
	var doc T
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if err := docValidator.Struct(&doc); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	return &doc, nil
}

// decodeOptional unmarshals a snapshot that may legitimately be absent, such
// as the before-image of an insert or an update without pre-images enabled
func decodeOptional[T any](raw bson.Raw) *T {
	doc, err := decodeDocument[T](raw)
	if err != nil {
		return nil
	}
	return doc
}
