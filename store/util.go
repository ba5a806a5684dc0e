package store

import (
	"github.com/autom8ter/docseed/errors"
	"github.com/autom8ter/docseed/model"
)

// ValidateDocumentAddress returns a validation error unless the address is a valid document address
func ValidateDocumentAddress(address model.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	if !address.IsDocument() {
		return errors.New(errors.Validation, "%q is not a document address", address.String())
	}
	return nil
}

// ValidateCollectionAddress returns a validation error unless the address is a valid collection address
func ValidateCollectionAddress(address model.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	if !address.IsCollection() {
		return errors.New(errors.Validation, "%q is not a collection address", address.String())
	}
	return nil
}
