package handler

const (
	errInternalServer   = "Internal server error"
	errValidation       = "Validation error. Please check your data and try again."
	errDuplicateEmail   = "Email address already exists. Please use a different email."
	errUserNotFound     = "User not found"
	errWrongPassword    = "Incorrect password"
	errTokenMissing     = "Token is missing"
	errTokenInvalid     = "Invalid or expired token"
	errBookmarkNotFound = "Bookmark not found"
	errNoFileUploaded   = "No file uploaded."
	errUnsupportedImage = "Unsupported image type."
)
