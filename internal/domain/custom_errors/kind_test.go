package custom_errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"community-feed-service/internal/domain/custom_errors"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want custom_errors.ErrorKind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "user not found", err: custom_errors.ErrUserNotFound, want: custom_errors.KindNotFound},
		{name: "wrapped content not found", err: fmt.Errorf("get: %w", custom_errors.ErrContentNotFound), want: custom_errors.KindNotFound},
		{name: "unresolvable address", err: custom_errors.ErrAddressUnresolvable, want: custom_errors.KindNotFound},
		{name: "empty comment", err: custom_errors.ErrEmptyComment, want: custom_errors.KindValidation},
		{name: "empty address", err: custom_errors.ErrEmptyAddress, want: custom_errors.KindValidation},
		{name: "self follow", err: custom_errors.ErrSelfFollow, want: custom_errors.KindValidation},
		{name: "duplicate like", err: custom_errors.ErrAlreadyLiked, want: custom_errors.KindConflict},
		{name: "upstream", err: custom_errors.ErrUpstreamUnavailable, want: custom_errors.KindUpstreamUnavailable},
		{name: "credential", err: custom_errors.ErrInvalidCredential, want: custom_errors.KindInvalidCredential},
		{name: "database", err: custom_errors.ErrDatabaseQuery, want: custom_errors.KindInternal},
		{name: "unknown", err: errors.New("boom"), want: custom_errors.KindInternal},
		{
			name: "validation wins over not found",
			err:  errors.Join(custom_errors.ErrUserNotFound, custom_errors.ErrValidation),
			want: custom_errors.KindValidation,
		},
		{
			name: "not found wins over upstream",
			err:  fmt.Errorf("%w: %w", custom_errors.ErrUpstreamUnavailable, custom_errors.ErrRouteNotFound),
			want: custom_errors.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 20; i++ {
				assert.Equal(t, tt.want, custom_errors.Kind(tt.err))
			}
		})
	}
}
