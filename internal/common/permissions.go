package common

// File permission constants
const (
	// FilePermissionSecure is used for the config file, which may hold credentials
	FilePermissionSecure = 0600

	// FilePermissionNormal is used for generated JSON artifacts
	FilePermissionNormal = 0644

	// DirPermissionSecure is used for the config directory
	DirPermissionSecure = 0700

	// DirPermissionNormal is used for artifact directories
	DirPermissionNormal = 0755
)
