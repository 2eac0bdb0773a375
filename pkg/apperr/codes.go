package apperr

const (
	CodeProjectNotFound      = "PROJECT_NOT_FOUND"
	CodeShiftNotFound        = "SHIFT_NOT_FOUND"
	CodeUserNotFound         = "USER_NOT_FOUND"
	CodeAssignmentNotFound   = "ASSIGNMENT_NOT_FOUND"
	CodeOrganizationNotFound = "ORGANIZATION_NOT_FOUND"
	CodeMemberNotFound       = "MEMBER_NOT_FOUND"
	CodeNotificationNotFound = "NOTIFICATION_NOT_FOUND"
	CodeJoinRequestNotFound  = "JOIN_REQUEST_NOT_FOUND"

	CodeAlreadyAssigned    = "ALREADY_ASSIGNED"
	CodeAlreadyMember      = "ALREADY_MEMBER"
	CodeJoinRequestPending = "JOIN_REQUEST_PENDING"
	CodeUserExists         = "USER_EXISTS"

	CodeNotAMember       = "NOT_A_MEMBER"
	CodeInsufficientRole = "INSUFFICIENT_ROLE"
	CodeInvalidOTP       = "INVALID_OTP"
	CodeInvalidToken     = "INVALID_TOKEN"

	CodeInvalidStatus    = "INVALID_STATUS"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeRateLimited      = "RATE_LIMITED"

	CodeInternal = "INTERNAL_ERROR"
)
