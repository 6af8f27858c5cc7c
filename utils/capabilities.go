package utils

import "github.com/maxmaindev/citizen-appeals/entity"

// Capabilities is the single place role permissions are resolved. Handlers
// and route guards consult it instead of comparing role strings inline.
type Capabilities struct {
	CreateAppeals       bool `json:"create_appeals"`
	ViewAllAppeals      bool `json:"view_all_appeals"`
	AssignAppeals       bool `json:"assign_appeals"`
	ChangeStatus        bool `json:"change_status"`
	SetPriority         bool `json:"set_priority"`
	UploadResultPhotos  bool `json:"upload_result_photos"`
	InternalComments    bool `json:"internal_comments"`
	ViewDashboards      bool `json:"view_dashboards"`
	ViewClassifications bool `json:"view_classifications"`
	ManageCatalog       bool `json:"manage_catalog"`
	ManageUsers         bool `json:"manage_users"`
	ManageSettings      bool `json:"manage_settings"`
}

func CapabilitiesFor(role string) Capabilities {
	switch role {
	case entity.RoleCitizen:
		return Capabilities{
			CreateAppeals: true,
		}
	case entity.RoleDispatcher:
		return Capabilities{
			ViewAllAppeals:      true,
			AssignAppeals:       true,
			ChangeStatus:        true,
			SetPriority:         true,
			InternalComments:    true,
			ViewDashboards:      true,
			ViewClassifications: true,
		}
	case entity.RoleExecutor:
		return Capabilities{
			ChangeStatus:       true,
			UploadResultPhotos: true,
			InternalComments:   true,
			ViewDashboards:     true,
		}
	case entity.RoleAdmin:
		return Capabilities{
			ViewAllAppeals:      true,
			AssignAppeals:       true,
			ChangeStatus:        true,
			SetPriority:         true,
			UploadResultPhotos:  true,
			InternalComments:    true,
			ViewDashboards:      true,
			ViewClassifications: true,
			ManageCatalog:       true,
			ManageUsers:         true,
			ManageSettings:      true,
		}
	default:
		return Capabilities{}
	}
}
