package access

// ===============================
// Roles
// ===============================

type Role string

const (
	RoleTourist Role = "tourist"
	RoleGuide   Role = "guide"
	RoleAdmin   Role = "admin"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleTourist, RoleGuide, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// Actor is the authenticated user performing an operation.
type Actor struct {
	UserID uint
	Role   Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// SelfRegistrable reports whether a user may pick the role at sign up.
func SelfRegistrable(r Role) bool {
	return r == RoleTourist || r == RoleGuide
}

// ===============================
// Actions
// ===============================

type Action string

const (
	ActionProfileUpdate Action = "profile:update"

	ActionGuideProfileManage Action = "guide_profile:manage"

	ActionBookingCreate       Action = "booking:create"
	ActionBookingRead         Action = "booking:read"
	ActionBookingUpdateStatus Action = "booking:update_status"

	ActionReviewCreate  Action = "review:create"
	ActionReviewUpdate  Action = "review:update"
	ActionReviewDelete  Action = "review:delete"
	ActionReviewRespond Action = "review:respond"

	ActionMessageSend Action = "message:send"
	ActionMessageRead Action = "message:read"

	ActionAdminDashboard        Action = "admin:dashboard"
	ActionAdminVerifyGuides     Action = "admin:verify_guides"
	ActionAdminModerateReviews  Action = "admin:moderate_reviews"
	ActionAdminManageUsers      Action = "admin:manage_users"
	ActionAdminRecomputeRatings Action = "admin:recompute_ratings"
	ActionAdminReadAudit        Action = "admin:read_audit"
)

// ===============================
// Policy table
// ===============================

var everyone = []Role{RoleTourist, RoleGuide, RoleAdmin}

var policy = map[Action][]Role{
	ActionProfileUpdate: everyone,

	ActionGuideProfileManage: {RoleGuide},

	ActionBookingCreate:       {RoleTourist},
	ActionBookingRead:         everyone,
	ActionBookingUpdateStatus: everyone,

	ActionReviewCreate:  {RoleTourist},
	ActionReviewUpdate:  {RoleTourist},
	ActionReviewDelete:  {RoleTourist, RoleAdmin},
	ActionReviewRespond: {RoleGuide},

	ActionMessageSend: everyone,
	ActionMessageRead: everyone,

	ActionAdminDashboard:        {RoleAdmin},
	ActionAdminVerifyGuides:     {RoleAdmin},
	ActionAdminModerateReviews:  {RoleAdmin},
	ActionAdminManageUsers:      {RoleAdmin},
	ActionAdminRecomputeRatings: {RoleAdmin},
	ActionAdminReadAudit:        {RoleAdmin},
}

// Allowed evaluates the capability table. Unknown actions are denied.
func Allowed(role Role, action Action) bool {
	for _, r := range policy[action] {
		if r == role {
			return true
		}
	}
	return false
}
