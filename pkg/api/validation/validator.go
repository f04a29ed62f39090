// LBGDB Metadata
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of LBGDB Metadata.
//
// LBGDB Metadata is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// LBGDB Metadata is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with LBGDB Metadata.  If not, see <http://www.gnu.org/licenses/>.

// Package validation wraps go-playground/validator with the custom tags used
// by the config file and the HTTP API.
package validation

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidParams = errors.New("invalid params")

// Validator validates tagged structs.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new Validator with registered custom validators.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("region", validateRegion)
	_ = v.RegisterValidation("baseurl", validateBaseURL)

	return &Validator{validate: v}
}

// DefaultValidator is a shared validator instance.
var DefaultValidator = NewValidator()

// Validate validates a struct and returns an *Error if any field fails.
func (v *Validator) Validate(params any) error {
	if err := v.validate.Struct(params); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return NewError(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// MaxRegionLength bounds a region descriptor, in runes.
const MaxRegionLength = 64

// validateRegion accepts any free-form region descriptor of printable text.
// Unknown descriptors are valid; they rank first in the region priority.
func validateRegion(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if utf8.RuneCountInString(val) > MaxRegionLength {
		return false
	}
	return !strings.ContainsFunc(val, func(r rune) bool {
		return !unicode.IsPrint(r)
	})
}

// validateBaseURL checks for an absolute http(s) URL with a trailing slash,
// so file names can be appended directly.
func validateBaseURL(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	u, err := url.Parse(val)
	if err != nil || u.Host == "" {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return strings.HasSuffix(u.Path, "/")
}
