// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

// ServiceError is the error reported to users for failed upstream calls: non-success
// responses, transport faults and missing credentials. Reason is meant to be shown as is.
type ServiceError struct {
	Reason string
	Err    error
}

// NewServiceError returns a ServiceError with the given reason and cause.
func NewServiceError(reason string, err error) *ServiceError {
	return &ServiceError{Reason: reason, Err: err}
}

func (e *ServiceError) Error() string {
	return e.Reason
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
