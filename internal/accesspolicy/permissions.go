package accesspolicy

// Capability names gated at the route level. The full catalog below is
// seeded at system initialization; the Admin role receives all of it.
const (
	PermViewAuditlogList    = "View_auditlog_list"
	PermViewUserList        = "View_user_list"
	PermCreateUser          = "Create_user"
	PermEditUser            = "Edit_user"
	PermDeleteUser          = "Delete_user"
	PermViewLeaveRequests   = "View_leave_requests"
	PermViewEventList       = "View_event_list"
	PermViewAnnouncements   = "View_Announcement_list"
	PermViewPerformanceList = "View_PerformanceReview_list"
)

// PermissionCatalog is the fixed set of capabilities known to the system,
// grouped per resource: list, create, show, edit, delete.
var PermissionCatalog = []string{
	PermViewAuditlogList,
	"View_all_auditlog_list",
	"Create_auditlog",
	"Show_auditlog",
	"Edit_auditlog",
	"Delete_auditlog",

	PermViewUserList,
	PermCreateUser,
	"Show_user",
	PermEditUser,
	PermDeleteUser,

	PermViewLeaveRequests,
	"Create_leave_request",
	"Show_leave_request",
	"Edit_leave_request",
	"Delete_leave_request",

	PermViewEventList,
	"Create_event",
	"Show_event",
	"Edit_event",
	"Delete_event",

	PermViewAnnouncements,
	"Create_Announcement",
	"Show_Announcement",
	"Edit_Announcement",
	"Delete_Announcement",

	PermViewPerformanceList,
	"Create_PerformanceReview",
	"Show_PerformanceReview",
	"Edit_PerformanceReview",
	"Delete_PerformanceReview",
}
