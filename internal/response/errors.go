package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrAuthRequired       ErrCode = "AUTHENTICATION_REQUIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden ErrCode = "FORBIDDEN"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrInvalidParam   ErrCode = "INVALID_PARAMETER"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Uploads ───────────────────────────────────────────────────────
	ErrFileRequired   ErrCode = "FILE_REQUIRED"
	ErrFileTooLarge   ErrCode = "FILE_TOO_LARGE"
	ErrUnreadableFile ErrCode = "UNREADABLE_FILE"
	ErrMailDelivery   ErrCode = "MAIL_DELIVERY_FAILED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Invalid username or password."
	case ErrTokenRequired:
		return "Authentication credentials were not provided."
	case ErrTokenInvalid:
		return "Given token not valid for any token type."
	case ErrAuthRequired:
		return "Authentication required. Must be admin/staff user."

	case ErrForbidden:
		return "You do not have permission to perform this action."

	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrInvalidParam:
		return "Invalid parameter value."

	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."

	case ErrFileRequired:
		return "No file uploaded."
	case ErrFileTooLarge:
		return "Uploaded file exceeds the size limit."
	case ErrUnreadableFile:
		return "Error reading Excel file."
	case ErrMailDelivery:
		return "Failed to send email."

	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	case ErrInternal:
		return "Internal server error."
	default:
		return "Unexpected error."
	}
}
