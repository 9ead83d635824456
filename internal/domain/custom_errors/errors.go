package custom_errors

import "errors"

// Not found
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrContentNotFound     = errors.New("content item not found")
	ErrFollowNotFound      = errors.New("follow relation not found")
	ErrAddressUnresolvable = errors.New("address could not be resolved to coordinates")
	ErrRouteNotFound       = errors.New("no route between locations")
)

// Validation
var (
	ErrValidation         = errors.New("validation failed")
	ErrEmptyBody          = errors.New("body is required")
	ErrEmptyComment       = errors.New("comment text is required")
	ErrEmptyMessage       = errors.New("message body is required")
	ErrEmptyAddress       = errors.New("address is required")
	ErrLocationRequired   = errors.New("location is required for this content kind")
	ErrLikesUnsupported   = errors.New("content kind cannot be liked")
	ErrSelfFollow         = errors.New("users cannot follow themselves")
	ErrInvalidContentKind = errors.New("invalid content kind")
)

// Conflict
var (
	ErrAlreadyLiked     = errors.New("item already liked by user")
	ErrAlreadyFollowing = errors.New("user is already followed")
)

var (
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
	ErrInvalidCredential   = errors.New("invalid credential")
	ErrDatabaseQuery       = errors.New("database query failed")
	ErrCacheMiss           = errors.New("cache miss")
)
