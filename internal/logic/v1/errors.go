// Package v1 provides the social API business logic for API version 1.
//
// Error Handling:
// This package defines sentinel errors for the outcomes handlers translate
// into specific HTTP responses. They are wrapped with context using
// fmt.Errorf("%w") when returned from service methods.
//
// Example Usage:
//
//	if post == nil {
//	    return nil, fmt.Errorf("get post %d: %w", id, ErrPostNotFound)
//	}
//
//	if post.AuthorID != callerID {
//	    return fmt.Errorf("delete post %d: %w", id, ErrForbidden)
//	}
//
// Error Checking (in handlers):
//
//	switch {
//	case errors.Is(err, logicv1.ErrPostNotFound):
//	    _ = c.Error(middleware.NewStatusError(http.StatusNotFound, "Post not found"))
//	default:
//	    _ = c.Error(err) // storage and unexpected faults go to the error normalizer
//	}
//
// Update and delete operations on missing rows return domain.ErrNotFound,
// which the error normalizer renders as 404 "Record not found".
package v1

import "errors"

// Sentinel errors for business operations.
var (
	// ErrInvalidCredentials indicates the provided password is incorrect.
	// HTTP Status: 401 Unauthorized
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound indicates the user does not exist.
	// HTTP Status: 404 Not Found (401 on login, to hide account existence)
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists indicates the email is already registered.
	// HTTP Status: 409 Conflict
	ErrUserExists = errors.New("user already exists")

	// ErrForbidden indicates the caller does not own the target resource or
	// tried to act on behalf of another user.
	// HTTP Status: 403 Forbidden
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidToken indicates a session token failed signature, payload or expiry checks.
	// HTTP Status: 401 Unauthorized
	ErrInvalidToken = errors.New("invalid token")

	// ErrPostNotFound indicates the post does not exist.
	// HTTP Status: 404 Not Found
	ErrPostNotFound = errors.New("post not found")

	// ErrCommentNotFound indicates the comment does not exist.
	// HTTP Status: 404 Not Found
	ErrCommentNotFound = errors.New("comment not found")

	// ErrMessageNotFound indicates the message does not exist.
	// HTTP Status: 404 Not Found
	ErrMessageNotFound = errors.New("message not found")
)
