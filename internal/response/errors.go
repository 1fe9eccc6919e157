package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Request ───────────────────────────────────────────────────────
	ErrMissingID          ErrCode = "MISSING_ID"
	ErrInvalidID          ErrCode = "INVALID_ID"
	ErrInvalidPayload     ErrCode = "INVALID_PAYLOAD"
	ErrAntiForgeryInvalid ErrCode = "ANTIFORGERY_INVALID"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation ErrCode = "VALIDATION_ERROR"
	ErrSaveFailed ErrCode = "SAVE_FAILED"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound          ErrCode = "NOT_FOUND"
	ErrConflict          ErrCode = "CONFLICT"
	ErrUnknownDepartment ErrCode = "UNKNOWN_DEPARTMENT"
	ErrDependencyExists  ErrCode = "DEPENDENCY_EXISTS"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// SaveFailedMessage is shown on a form whose unit of work could not be committed.
const SaveFailedMessage = "Unable to save changes. Try again, and if the problem persists, see your system administrator."

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Request ───────────────────────────────────────────────────────
	case ErrMissingID:
		return "An id is required for this page."
	case ErrInvalidID:
		return "Invalid id format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrAntiForgeryInvalid:
		return "The anti-forgery token is missing, expired or already used."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrSaveFailed:
		return SaveFailedMessage

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "A course with this number already exists."
	case ErrUnknownDepartment:
		return "The selected department does not exist."
	case ErrDependencyExists:
		return "The course cannot be deleted because students are enrolled in it."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
