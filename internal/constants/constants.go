package constants

const (
	// Pagination
	DefaultPageSize = 20
	MinPageSize     = 1
	MaxPageSize     = 100

	// Admin credential sources
	AdminPasswordParam  = "password"
	AdminPasswordHeader = "x-admin-password"

	// Multipart field carrying bug attachments
	ScreenshotsFormField = "screenshots"

	// Service banner
	ServiceName    = "Bug Tracker API"
	ServiceVersion = "1.1.0"
)
