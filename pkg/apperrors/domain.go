package apperrors

import (
	"net/http"
)

/*
Factories and predefined errors for the marketplace business rules.
Factory functions wrap repository errors; variables cover the static
cases the services raise directly.
*/

// ErrNotFound converts a repository miss (e.g. gorm.ErrRecordNotFound)
// into a 404 AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists converts a uniqueness violation into a 409.
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict is the generic 409 factory.
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation builds a 400 for operations the current state forbids.
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus builds a 400 for illegal status transitions.
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// --- Auth & account status ---

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

var ErrUserSuspended = New(
	CodeForbidden,
	"auth",
	"Your account has been suspended",
	http.StatusForbidden,
)

// --- Loads ---

// ErrLoadNotActive - the load is no longer open for requests.
var ErrLoadNotActive = New(
	CodeInvalidStatus,
	"load",
	"Load is no longer available",
	http.StatusBadRequest,
)

// ErrLoadAlreadyAssigned - the load already carries an assignment.
var ErrLoadAlreadyAssigned = New(
	CodeInvalidStatus,
	"load",
	"Load is already assigned",
	http.StatusBadRequest,
)

// ErrInvalidLoadStatus - operation not allowed for the load's current status.
var ErrInvalidLoadStatus = New(
	CodeInvalidStatus,
	"load",
	"Operation not allowed for the current load status",
	http.StatusConflict,
)

// --- Load requests ---

// ErrCannotRequestOwnLoad - owners cannot bid on their own postings.
var ErrCannotRequestOwnLoad = New(
	CodeInvalidOperation,
	"request",
	"Cannot request own load",
	http.StatusBadRequest,
)

// ErrDuplicatePendingRequest - one pending bid per requester per load.
var ErrDuplicatePendingRequest = New(
	CodeConflict,
	"request",
	"Duplicate pending request for this load",
	http.StatusConflict,
)

// ErrRequestAlreadyProcessed - the request already left the pending state.
var ErrRequestAlreadyProcessed = New(
	CodeInvalidStatus,
	"request",
	"Request has already been processed",
	http.StatusBadRequest,
)

// ErrSiblingAlreadyAccepted - a competing request already won the load.
var ErrSiblingAlreadyAccepted = New(
	CodeInvalidStatus,
	"request",
	"Load already accepted by another carrier",
	http.StatusBadRequest,
)

// ErrAssignmentRaceLost - the conditional load update matched zero rows:
// a concurrent acceptance committed first.
var ErrAssignmentRaceLost = New(
	CodeConflict,
	"request",
	"Load was just assigned to another carrier",
	http.StatusConflict,
)

// ErrRequesterInactive - only active accounts can be awarded a load.
var ErrRequesterInactive = New(
	CodeValidationFailed,
	"request",
	"Requester account is not active",
	http.StatusBadRequest,
)

// --- Alerts ---

// ErrServiceAreaNotFound - the service area does not exist or belongs to
// another user.
var ErrServiceAreaNotFound = New(
	CodeNotFound,
	"alerts",
	"Service area not found",
	http.StatusNotFound,
)
