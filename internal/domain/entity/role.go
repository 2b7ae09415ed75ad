package entity

// Role IDs carried in the access token issued by the identity service
const (
	RoleIDAdmin   = 1
	RoleIDDoctor  = 2
	RoleIDPatient = 3
)
