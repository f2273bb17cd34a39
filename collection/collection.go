// Package collection applies derived schemas as MongoDB collection validators.
package collection

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pablor21/magnet/bsonschema"
)

type ValidationLevel string

const (
	LevelStrict   ValidationLevel = "strict"
	LevelModerate ValidationLevel = "moderate"
	LevelOff      ValidationLevel = "off"
)

type ValidationAction string

const (
	ActionError ValidationAction = "error"
	ActionWarn  ValidationAction = "warn"
)

// ValidatorOptions controls how the server applies the validator. Zero values
// leave the server defaults (strict, error).
type ValidatorOptions struct {
	Level  ValidationLevel
	Action ValidationAction
}

var ErrInvalidOptions = errors.New("invalid validator options")

func (o ValidatorOptions) validate() error {
	if o.Level != "" && !slices.Contains([]ValidationLevel{LevelStrict, LevelModerate, LevelOff}, o.Level) {
		return fmt.Errorf("%w: validation level %q", ErrInvalidOptions, o.Level)
	}
	if o.Action != "" && o.Action != ActionError && o.Action != ActionWarn {
		return fmt.Errorf("%w: validation action %q", ErrInvalidOptions, o.Action)
	}
	return nil
}

func (o ValidatorOptions) appendTo(cmd bson.D) bson.D {
	if o.Level != "" {
		cmd = append(cmd, bson.E{Key: "validationLevel", Value: string(o.Level)})
	}
	if o.Action != "" {
		cmd = append(cmd, bson.E{Key: "validationAction", Value: string(o.Action)})
	}
	return cmd
}

// CreateCommand returns the create command of a collection validated by schema.
func CreateCommand(name string, schema bson.D, opts ValidatorOptions) (bson.D, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	cmd := bson.D{
		{Key: "create", Value: name},
		{Key: "validator", Value: bsonschema.Validator(schema)},
	}
	return opts.appendTo(cmd), nil
}

// ModifyCommand returns the collMod command replacing the validator of an
// existing collection.
func ModifyCommand(name string, schema bson.D, opts ValidatorOptions) (bson.D, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: bsonschema.Validator(schema)},
	}
	return opts.appendTo(cmd), nil
}

// Database is the part of *mongo.Database Ensure uses.
type Database interface {
	ListCollectionNames(ctx context.Context, filter any, opts ...*options.ListCollectionsOptions) ([]string, error)
	RunCommand(ctx context.Context, runCommand any, opts ...*options.RunCmdOptions) *mongo.SingleResult
}

var _ Database = (*mongo.Database)(nil)

// Ensure installs schema as the validator of the named collection, creating
// the collection when it does not exist yet.
func Ensure(ctx context.Context, db Database, name string, schema bson.D, opts ValidatorOptions) error {
	names, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	build, verb := CreateCommand, "create"
	if slices.Contains(names, name) {
		build, verb = ModifyCommand, "update"
	}
	cmd, err := build(name, schema, opts)
	if err != nil {
		return err
	}
	if err := db.RunCommand(ctx, cmd).Err(); err != nil {
		return fmt.Errorf("failed to %s collection %s: %w", verb, name, err)
	}
	return nil
}
