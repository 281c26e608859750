// SPDX-License-Identifier: MIT

package policy

import "errors"

var (
	// ErrUnknownPolicy is returned by ByName for an unregistered name.
	ErrUnknownPolicy = errors.New("policy: unknown policy")

	// ErrBadFactor is returned when a splitter receives a factor < 1 or a
	// non-positive row count.
	ErrBadFactor = errors.New("policy: parallel factor must be >= 1")
)
