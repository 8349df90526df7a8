package models

// Role represents user role types
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleArborist       Role = "arborist"
	RoleCouncilManager Role = "council_manager"
	RoleViewer         Role = "viewer"
)

// HealthStatus is the assessed condition of a tree
type HealthStatus string

const (
	HealthExcellent HealthStatus = "excellent"
	HealthGood      HealthStatus = "good"
	HealthFair      HealthStatus = "fair"
	HealthPoor      HealthStatus = "poor"
	HealthDead      HealthStatus = "dead"
)

// AlertSeverity grades a risk alert
type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "low"
	SeverityMedium   AlertSeverity = "medium"
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

// Editors are the roles allowed to create and modify trees.
var Editors = []Role{RoleArborist, RoleAdmin, RoleCouncilManager}
