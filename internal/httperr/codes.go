package httperr

import "net/http"

const (
	CodeInvalidRequest = "invalid_request"
	CodeInvalidID      = "invalid_id"
	CodeServerError    = "server_error"
	CodeRateLimited    = "rate_limited"

	CodeNotAuthorized      = "not_authorized"
	CodeTokenExpired       = "token_expired"
	CodeInvalidToken       = "invalid_token"
	CodeAccountSuspended   = "account_suspended"
	CodeForbidden          = "forbidden"
	CodeInvalidCredentials = "invalid_credentials"
	CodeIncorrectPassword  = "incorrect_password"
	CodeInvalidResetToken  = "invalid_reset_token"
	CodeEmailTaken         = "email_taken"
	CodeInvalidEmailDomain = "invalid_email_domain"
	CodeInvalidRole        = "invalid_role"
	CodeUserNotFound       = "user_not_found"

	CodeGuideNotFound   = "guide_not_found"
	CodeProfileExists   = "profile_exists"
	CodeProfileNotFound = "profile_not_found"

	CodeBookingNotFound    = "booking_not_found"
	CodeCannotBookSelf     = "cannot_book_self"
	CodeInvalidDateOrTime  = "invalid_date_or_time"
	CodeDateInPast         = "date_in_past"
	CodeSlotTaken          = "slot_taken"
	CodeInvalidStatus      = "invalid_status"
	CodeInvalidTransition  = "invalid_transition"
	CodeTransitionNotOwned = "transition_not_allowed"

	CodeReviewNotFound      = "review_not_found"
	CodeBookingNotCompleted = "booking_not_completed"
	CodeReviewExists        = "review_exists"
	CodeInvalidRating       = "invalid_rating"

	CodeRecipientNotFound = "recipient_not_found"
	CodeCannotMessageSelf = "cannot_message_self"

	CodeFileRequired        = "file_required"
	CodeFileTooLarge        = "file_too_large"
	CodeUnsupportedFileType = "unsupported_file_type"
)

type entry struct {
	status  int
	message string
}

var catalog = map[string]entry{
	CodeInvalidRequest: {http.StatusBadRequest, "Invalid request data"},
	CodeInvalidID:      {http.StatusBadRequest, "Invalid id"},
	CodeServerError:    {http.StatusInternalServerError, "Server error"},
	CodeRateLimited:    {http.StatusTooManyRequests, "Too many requests, please try again later"},

	CodeNotAuthorized:      {http.StatusUnauthorized, "Not authorized to access this route"},
	CodeTokenExpired:       {http.StatusUnauthorized, "Token expired"},
	CodeInvalidToken:       {http.StatusUnauthorized, "Invalid token"},
	CodeAccountSuspended:   {http.StatusUnauthorized, "Account suspended"},
	CodeForbidden:          {http.StatusForbidden, "You are not allowed to perform this action"},
	CodeInvalidCredentials: {http.StatusUnauthorized, "Invalid credentials"},
	CodeIncorrectPassword:  {http.StatusUnauthorized, "Current password is incorrect"},
	CodeInvalidResetToken:  {http.StatusBadRequest, "Invalid or expired reset token"},
	CodeEmailTaken:         {http.StatusBadRequest, "Email already registered"},
	CodeInvalidEmailDomain: {http.StatusBadRequest, "Email domain does not look valid"},
	CodeInvalidRole:        {http.StatusBadRequest, "Invalid role"},
	CodeUserNotFound:       {http.StatusNotFound, "User not found"},

	CodeGuideNotFound:   {http.StatusNotFound, "Guide not found or not available"},
	CodeProfileExists:   {http.StatusBadRequest, "Guide profile already exists"},
	CodeProfileNotFound: {http.StatusNotFound, "Guide profile not found"},

	CodeBookingNotFound:    {http.StatusNotFound, "Booking not found"},
	CodeCannotBookSelf:     {http.StatusBadRequest, "You cannot book yourself"},
	CodeInvalidDateOrTime:  {http.StatusBadRequest, "Invalid date or time"},
	CodeDateInPast:         {http.StatusBadRequest, "Booking date cannot be in the past"},
	CodeSlotTaken:          {http.StatusBadRequest, "This time slot is already booked"},
	CodeInvalidStatus:      {http.StatusBadRequest, "Invalid booking status"},
	CodeInvalidTransition:  {http.StatusBadRequest, "Booking cannot be moved to this status"},
	CodeTransitionNotOwned: {http.StatusForbidden, "You are not allowed to change this booking to this status"},

	CodeReviewNotFound:      {http.StatusNotFound, "Review not found"},
	CodeBookingNotCompleted: {http.StatusBadRequest, "You can only review completed bookings"},
	CodeReviewExists:        {http.StatusBadRequest, "Review already exists for this booking"},
	CodeInvalidRating:       {http.StatusBadRequest, "Ratings must be between 1 and 5"},

	CodeRecipientNotFound: {http.StatusNotFound, "Recipient not found"},
	CodeCannotMessageSelf: {http.StatusBadRequest, "You cannot message yourself"},

	CodeFileRequired:        {http.StatusBadRequest, "Please upload a file"},
	CodeFileTooLarge:        {http.StatusBadRequest, "File exceeds the maximum allowed size"},
	CodeUnsupportedFileType: {http.StatusBadRequest, "Only image files are allowed"},
}

// Lookup returns the HTTP status and default message for a code. Unknown
// codes are treated as bad requests.
func Lookup(code string) (int, string) {
	if e, ok := catalog[code]; ok {
		return e.status, e.message
	}
	return http.StatusBadRequest, code
}
