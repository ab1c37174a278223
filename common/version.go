package common

const (
	major = 0
	minor = 1
	patch = 0

	// Version is the current contract version reported by the version
	// method.
	Version = major*1_000_000 + minor*1_000 + patch
)
