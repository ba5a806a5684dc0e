// Package javascript runs user supplied record transforms inside a goja vm
package javascript

import (
	"github.com/autom8ter/docseed/errors"
	"github.com/dop251/goja"
	"github.com/segmentio/ksuid"
)

// Function is a parsed javascript function
type Function func(input any) (any, error)

// Script is javascript source declaring a function. The first declared function is the entrypoint.
type Script string

// FunctionName returns the name of the script's first declared function
func (s Script) FunctionName() string {
	return getFunctionName(string(s))
}

// Parse evaluates the script and exports its entrypoint. The vm exposes a `ksuid()` helper that returns a new unique id.
func (s Script) Parse() (Function, error) {
	name := s.FunctionName()
	if name == "" {
		return nil, errors.New(errors.Validation, "script does not declare a function")
	}
	vm := goja.New()
	vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))
	if err := vm.Set("ksuid", newID); err != nil {
		return nil, err
	}
	if _, err := vm.RunString(string(s)); err != nil {
		return nil, errors.Wrap(err, errors.Validation, "failed to evaluate script")
	}
	var function Function
	if err := vm.ExportTo(vm.Get(name), &function); err != nil {
		return nil, errors.Wrap(err, errors.Validation, "failed to export function %s", name)
	}
	return function, nil
}

func newID() string {
	return ksuid.New().String()
}
