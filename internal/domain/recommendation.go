package domain

// Recommendation is the per-request response aggregate. Ephemeral, never persisted.
type Recommendation struct {
	LocalFiles     []string
	ExternalImages []ImageDescriptor
}

// KeyPrefix namespaces all persisted keys.
const KeyPrefix = "filerec:"
