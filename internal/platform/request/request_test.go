// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/taskly/internal/platform/apperr"
	requestutil "github.com/taibuivan/taskly/internal/platform/request"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
TestDecodeJSON accepts exactly one object with known keys.
*/
func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		isValid bool
		field   string
	}{
		{"valid", `{"email":"a@b.c","password":"hunter22"}`, true, ""},
		{"trailing_whitespace", "{\"email\":\"a@b.c\"}\n  ", true, ""},
		{"unknown_field", `{"email":"a@b.c","role":"admin"}`, false, "role"},
		{"trailing_object", `{"email":"a@b.c"}{"email":"x@y.z"}`, false, ""},
		{"trailing_garbage", `{"email":"a@b.c"} nope`, false, ""},
		{"malformed", `{"email":`, false, ""},
		{"empty", ``, false, ""},
		{"wrong_type", `{"email":42}`, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var target credentials
			err := requestutil.DecodeJSON(httptest.NewRecorder(), request, &target)

			if tt.isValid {
				require.NoError(t, err)
				assert.Equal(t, "a@b.c", target.Email)
				return
			}

			require.Error(t, err)
			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, apperr.CodeValidation, appError.Code)

			if tt.field != "" {
				require.Len(t, appError.Details, 1)
				assert.Equal(t, tt.field, appError.Details[0].Field)
			}
		})
	}
}
