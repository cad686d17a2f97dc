package domain

import "errors"

// ErrNotFound is returned when the requested store or user does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails a business rule (missing name,
// coordinates out of range, …). Handlers should map this to HTTP 422.
var ErrValidation = errors.New("validation error")

// ErrForbidden is returned when the acting user is not the store's author.
// Surfaced distinctly from ErrNotFound so owners get an actionable message.
var ErrForbidden = errors.New("forbidden")

// ErrPersistence is returned when the storage layer fails after retries are
// exhausted. Treated as fatal for the request and logged at the boundary.
var ErrPersistence = errors.New("persistence failure")

// ErrInvalidMediaType is returned by the photo pipeline for non-image uploads.
var ErrInvalidMediaType = errors.New("invalid media type")

// ErrDecode is returned by the photo pipeline for corrupt image data.
var ErrDecode = errors.New("image decode failure")

// ErrStorageWrite is returned when the resized photo cannot be written to the
// content area. The whole create/update is aborted so no store record ever
// references a missing file.
var ErrStorageWrite = errors.New("content storage write failure")

// ErrSlugTaken signals a slug uniqueness violation from the persistence port.
// Consumed by the create retry loop; never escapes the catalog service.
var ErrSlugTaken = errors.New("slug already taken")

// ErrEmailTaken signals an email uniqueness violation from the persistence
// port. The auth collaborator turns it into a validation error.
var ErrEmailTaken = errors.New("email already taken")
