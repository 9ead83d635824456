package custom_errors

import "errors"

type ErrorKind string

const (
	KindNotFound            ErrorKind = "not_found"
	KindValidation          ErrorKind = "validation_error"
	KindConflict            ErrorKind = "conflict"
	KindUpstreamUnavailable ErrorKind = "upstream_unavailable"
	KindInvalidCredential   ErrorKind = "invalid_credential"
	KindInternal            ErrorKind = "internal"
)

// kinds is checked in order, so an error wrapping sentinels of several kinds
// always classifies the same way.
var kinds = []struct {
	kind      ErrorKind
	sentinels []error
}{
	{KindInvalidCredential, []error{ErrInvalidCredential}},
	{KindValidation, []error{
		ErrValidation, ErrEmptyBody, ErrEmptyComment, ErrEmptyMessage, ErrEmptyAddress,
		ErrLocationRequired, ErrLikesUnsupported, ErrSelfFollow, ErrInvalidContentKind,
	}},
	{KindNotFound, []error{
		ErrUserNotFound, ErrContentNotFound, ErrFollowNotFound,
		ErrAddressUnresolvable, ErrRouteNotFound,
	}},
	{KindConflict, []error{ErrAlreadyLiked, ErrAlreadyFollowing}},
	{KindUpstreamUnavailable, []error{ErrUpstreamUnavailable}},
}

// Kind classifies err into one of the error kinds exposed to callers.
// Anything unrecognised is KindInternal.
func Kind(err error) ErrorKind {
	if err == nil {
		return ""
	}
	for _, entry := range kinds {
		for _, sentinel := range entry.sentinels {
			if errors.Is(err, sentinel) {
				return entry.kind
			}
		}
	}
	return KindInternal
}
