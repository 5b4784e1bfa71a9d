package dto

// ProfileListResponse represents a list of profiles.
type ProfileListResponse struct {
	// Profiles is the list of profile summaries.
	Profiles []ProfileListItem `json:"profiles"`
}

// ProfileListItem represents a profile in a list.
type ProfileListItem struct {
	// Name is the profile name.
	Name string `json:"name"`

	// Description is the profile description.
	Description string `json:"description,omitempty"`

	// Category is the first path segment of the name ("raw", "cca2").
	Category string `json:"category,omitempty"`

	// Algorithm is the algorithm identifier.
	Algorithm string `json:"algorithm"`
}

// ProfileInfoResponse represents detailed profile information.
type ProfileInfoResponse struct {
	// Name is the profile name.
	Name string `json:"name"`

	// Description is the profile description.
	Description string `json:"description,omitempty"`

	// Category is the profile category.
	Category string `json:"category,omitempty"`

	// Algorithm is the algorithm configuration.
	Algorithm AlgorithmInfo `json:"algorithm"`

	// Params describes the code parameters.
	Params ParamsInfo `json:"params"`

	// PublicKeySize is the size of the public generator matrix in bytes.
	PublicKeySize int `json:"public_key_size"`
}
