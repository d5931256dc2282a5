package domain

import "time"

// Role grants access to parts of the warehouse API
type Role string

const (
	RoleAdmin            Role = "admin"
	RoleWarehouseManager Role = "warehouse_manager"
	RoleWarehouseStaff   Role = "warehouse_staff"
)

// User is an operator account
type User struct {
	Username     string    `bson:"_id"`
	PasswordHash string    `bson:"passwordHash"`
	DisplayName  string    `bson:"displayName"`
	Role         Role      `bson:"role"`
	CreatedAt    time.Time `bson:"createdAt"`
}

// UserSettings holds per-user preferences. Sections are replaced as a
// whole when patched.
type UserSettings struct {
	UserID        string               `bson:"_id" json:"userId"`
	Notifications NotificationSettings `bson:"notifications" json:"notifications"`
	Dashboard     DashboardSettings    `bson:"dashboard" json:"dashboard"`
	Display       DisplaySettings      `bson:"display" json:"display"`
	Integration   IntegrationSettings  `bson:"integration" json:"integration"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updatedAt"`
}

type NotificationSettings struct {
	Email bool `bson:"email" json:"email"`
	Push  bool `bson:"push" json:"push"`
	SMS   bool `bson:"sms" json:"sms"`
}

type DashboardSettings struct {
	DefaultView string `bson:"defaultView" json:"defaultView" validate:"oneof=overview routes supply-chain"`
	RefreshRate int    `bson:"refreshRate" json:"refreshRate" validate:"gte=5,lte=3600"`
}

type DisplaySettings struct {
	Theme   string `bson:"theme" json:"theme" validate:"oneof=light dark system"`
	Density string `bson:"density" json:"density" validate:"oneof=compact comfortable spacious"`
}

type IntegrationSettings struct {
	ERP       bool `bson:"erp" json:"erp"`
	Weather   bool `bson:"weather" json:"weather"`
	Analytics bool `bson:"analytics" json:"analytics"`
}

// SettingsPatch carries the sections supplied in a settings update
type SettingsPatch struct {
	Notifications *NotificationSettings `json:"notifications"`
	Dashboard     *DashboardSettings    `json:"dashboard" validate:"omitempty"`
	Display       *DisplaySettings      `json:"display" validate:"omitempty"`
	Integration   *IntegrationSettings  `json:"integration"`
}

// DefaultUserSettings returns the settings a user starts with
func DefaultUserSettings(userID string) *UserSettings {
	return &UserSettings{
		UserID:        userID,
		Notifications: NotificationSettings{Email: true, Push: true},
		Dashboard:     DashboardSettings{DefaultView: "overview", RefreshRate: 30},
		Display:       DisplaySettings{Theme: "system", Density: "comfortable"},
		Integration:   IntegrationSettings{Weather: true, Analytics: true},
		UpdatedAt:     time.Now().UTC(),
	}
}

// Merge replaces every section present in the patch
func (s *UserSettings) Merge(p SettingsPatch) {
	if p.Notifications != nil {
		s.Notifications = *p.Notifications
	}
	if p.Dashboard != nil {
		s.Dashboard = *p.Dashboard
	}
	if p.Display != nil {
		s.Display = *p.Display
	}
	if p.Integration != nil {
		s.Integration = *p.Integration
	}
	s.UpdatedAt = time.Now().UTC()
}
