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

//nolint:revive // custom validation tags (region, baseurl) are unknown to revive
package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRegion(t *testing.T) {
	t.Parallel()

	type testStruct struct {
		Region string `validate:"region"`
	}

	tests := []struct {
		name      string
		value     string
		wantError bool
	}{
		{name: "empty", value: "", wantError: false},
		{name: "launchbox name", value: "North America", wantError: false},
		{name: "no-intro name", value: "USA", wantError: false},
		{name: "code", value: "eu", wantError: false},
		{name: "padded", value: "  Japan ", wantError: false},
		{name: "free-form descriptor", value: "Latin America", wantError: false},
		{name: "non-ascii", value: "Türkiye", wantError: false},
		{name: "control character", value: "Europe\x00", wantError: true},
		{name: "too long", value: strings.Repeat("a", MaxRegionLength+1), wantError: true},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := v.Validate(&testStruct{Region: tt.value})
			if tt.wantError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "printable characters")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBaseURL(t *testing.T) {
	t.Parallel()

	type testStruct struct {
		Base string `validate:"baseurl"`
	}

	tests := []struct {
		name      string
		value     string
		wantError bool
	}{
		{name: "empty", value: "", wantError: false},
		{name: "https with slash", value: "https://images.launchbox-app.com/", wantError: false},
		{name: "http nested path", value: "http://localhost:8080/img/", wantError: false},
		{name: "missing slash", value: "https://images.launchbox-app.com", wantError: true},
		{name: "wrong scheme", value: "ftp://example.com/", wantError: true},
		{name: "relative", value: "/images/", wantError: true},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := v.Validate(&testStruct{Base: tt.value})
			if tt.wantError {
				require.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_ErrorFields(t *testing.T) {
	t.Parallel()

	type testStruct struct {
		Name  string `validate:"required"`
		Batch int    `validate:"min=1"`
	}

	err := DefaultValidator.Validate(&testStruct{})
	require.Error(t, err)

	var ve *Error
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Fields, 2)
	assert.Equal(t, "required", ve.Fields[0].Tag)
	assert.Equal(t, "name is required", ve.Fields[0].Message)
	assert.Equal(t, "batch must be at least 1", ve.Fields[1].Message)
	assert.Equal(t, "name is required; batch must be at least 1", err.Error())
}

func TestError_Empty(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "validation failed", (&Error{}).Error())
}
