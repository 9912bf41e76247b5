package constants

import "fmt"

const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
	RoleViewer   = "viewer"
)

// Template pesan error role
const (
	ErrOnlyAdminsCanAccess  = "❌ Hanya admin yang boleh mengakses fitur %s."
	ErrOnlyEditorsCanAccess = "❌ Hanya admin atau operator yang boleh mengubah data %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorEditor(feature string) string {
	return fmt.Sprintf(ErrOnlyEditorsCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleAdmin,
		RoleOperator,
		RoleViewer,
	}

	EditorRoles = []string{
		RoleAdmin,
		RoleOperator,
	}

	AdminOnly = []string{
		RoleAdmin,
	}
)

func IsKnownRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
