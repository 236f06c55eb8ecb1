// Copyright 2024 TableKit Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package moerr

import (
	"errors"
	"fmt"
	"strings"
)

const (
	Ok uint16 = 0

	// Group 1: internal errors
	ErrInternal uint16 = 20101

	// Group 2: invalid input
	ErrInvalidInput        uint16 = 20301
	ErrBadColumn           uint16 = 20302
	ErrUnsupportedKeyType  uint16 = 20303
	ErrLengthMismatch      uint16 = 20304
	ErrDivByZero           uint16 = 20305
	ErrUnsupportedOverload uint16 = 20306

	// Group 3: unexpected state
	ErrSpillIO uint16 = 20402
)

type errorItem struct {
	code   uint16
	format string
}

var errorMsgRegistry = map[uint16]errorItem{
	ErrInternal:            {ErrInternal, "internal error: %s"},
	ErrInvalidInput:        {ErrInvalidInput, "invalid input: %s"},
	ErrBadColumn:           {ErrBadColumn, "column '%s' does not exist"},
	ErrUnsupportedKeyType:  {ErrUnsupportedKeyType, "column(s) %s hold container values and cannot be used for deduplication"},
	ErrLengthMismatch:      {ErrLengthMismatch, "vector length mismatch: expected %d rows, got %d"},
	ErrDivByZero:           {ErrDivByZero, "division by zero"},
	ErrUnsupportedOverload: {ErrUnsupportedOverload, "operator '%s' is not defined for type %s"},
	ErrSpillIO:             {ErrSpillIO, "spill i/o failed: %s"},
}

// Error is the only error type produced by this module. It carries a
// stable code so that callers can test error classes without string
// matching.
type Error struct {
	code    uint16
	message string
}

func (e *Error) Error() string {
	return e.message
}

func (e *Error) ErrorCode() uint16 {
	return e.code
}

func newError(code uint16, args ...any) *Error {
	item, ok := errorMsgRegistry[code]
	if !ok {
		panic(fmt.Errorf("missing error item for error code %d", code))
	}
	return &Error{code: code, message: fmt.Sprintf(item.format, args...)}
}

// IsMoErrCode reports whether err is a *Error with the given code.
func IsMoErrCode(err error, code uint16) bool {
	if err == nil {
		return code == Ok
	}
	var me *Error
	if !errors.As(err, &me) {
		return false
	}
	return me.code == code
}

func NewInternalError(msg string) *Error {
	return newError(ErrInternal, msg)
}

func NewInternalErrorf(format string, args ...any) *Error {
	return newError(ErrInternal, fmt.Sprintf(format, args...))
}

func NewInvalidInput(msg string) *Error {
	return newError(ErrInvalidInput, msg)
}

func NewInvalidInputf(format string, args ...any) *Error {
	return newError(ErrInvalidInput, fmt.Sprintf(format, args...))
}

func NewBadColumn(name string) *Error {
	return newError(ErrBadColumn, name)
}

func NewUnsupportedKeyType(cols ...string) *Error {
	return newError(ErrUnsupportedKeyType, strings.Join(cols, ", "))
}

func NewLengthMismatch(expected, got int) *Error {
	return newError(ErrLengthMismatch, expected, got)
}

func NewDivByZero() *Error {
	return newError(ErrDivByZero)
}

func NewUnsupportedOverload(op string, typ fmt.Stringer) *Error {
	return newError(ErrUnsupportedOverload, op, typ)
}

func NewSpillIO(cause error) *Error {
	return newError(ErrSpillIO, cause.Error())
}
