package mongodb

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrMethodNotAllowed    = errors.New("method not allowed")
	ErrNotConnected        = errors.New("mongodb: not connected")
	ErrInvalidID           = errors.New("invalid document id")
	ErrModelTypeMismatch   = errors.New("model already defined with a different document type")
	ErrEmptyCollectionName = errors.New("collection name is required")
)

// codeDocumentFailedValidation is the server code for writes rejected by $jsonSchema.
const codeDocumentFailedValidation = 121

// MethodNotAllowedError is returned when an operation is outside a collection's allow-list.
type MethodNotAllowedError struct {
	Method     Method
	Collection string
}

func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("the method %q is not allowed in %q", e.Method, e.Collection)
}

func (e *MethodNotAllowedError) Is(target error) bool {
	return target == ErrMethodNotAllowed
}

// StorageError is the uniform kind for writes rejected by the server: validator failures,
// unique index violations and any other server-side write error. Message is the server's
// own message.
type StorageError struct {
	Op         Method
	Collection string
	Code       int
	Message    string
	Err        error
}

func (e *StorageError) Error() string {
	return e.Message
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorageError reports whether err is a server-side write rejection.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// IsConstraintViolation reports whether err is a duplicate key violation.
func IsConstraintViolation(err error) bool {
	var se *StorageError
	if !errors.As(err, &se) {
		return false
	}
	return mongo.IsDuplicateKeyError(se.Err)
}

// IsValidationFailure reports whether err is a write rejected by the collection validator.
func IsValidationFailure(err error) bool {
	var se *StorageError
	if !errors.As(err, &se) {
		return false
	}
	return se.Code == codeDocumentFailedValidation
}

// wrapWriteError re-signals server errors as *StorageError. Client side failures such as
// network errors or ErrNotConnected are returned unchanged.
func wrapWriteError(op Method, collection string, err error) error {
	if err == nil {
		return nil
	}
	var serverErr mongo.ServerError
	if !errors.As(err, &serverErr) {
		return err
	}

	code, message := serverErrorDetails(err)
	return &StorageError{
		Op:         op,
		Collection: collection,
		Code:       code,
		Message:    message,
		Err:        err,
	}
}

func serverErrorDetails(err error) (int, string) {
	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		if len(writeErr.WriteErrors) > 0 {
			return writeErr.WriteErrors[0].Code, writeErr.WriteErrors[0].Message
		}
		if writeErr.WriteConcernError != nil {
			return writeErr.WriteConcernError.Code, writeErr.WriteConcernError.Message
		}
	}

	var bulkErr mongo.BulkWriteException
	if errors.As(err, &bulkErr) {
		if len(bulkErr.WriteErrors) > 0 {
			return bulkErr.WriteErrors[0].Code, bulkErr.WriteErrors[0].Message
		}
		if bulkErr.WriteConcernError != nil {
			return bulkErr.WriteConcernError.Code, bulkErr.WriteConcernError.Message
		}
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return int(cmdErr.Code), cmdErr.Message
	}

	return 0, err.Error()
}
