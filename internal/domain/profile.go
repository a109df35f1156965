package domain

import "fmt"

// Profile enumerates the fixed set of helpdesk roles.
type Profile int

const (
	ProfileRoot       Profile = 0
	ProfileAdmin      Profile = 1
	ProfileClient     Profile = 2
	ProfileTechnician Profile = 3
)

var profileDescriptions = map[Profile]string{
	ProfileRoot:       "ROLE_ROOT",
	ProfileAdmin:      "ROLE_ADMIN",
	ProfileClient:     "ROLE_CLIENT",
	ProfileTechnician: "ROLE_TECHNICIAN",
}

// Profiles lists all known profiles in code order.
func Profiles() []Profile {
	return []Profile{ProfileRoot, ProfileAdmin, ProfileClient, ProfileTechnician}
}

// Code returns the stable numeric code.
func (p Profile) Code() int {
	return int(p)
}

// Description returns the role descriptor, e.g. "ROLE_ROOT".
func (p Profile) Description() string {
	return profileDescriptions[p]
}

// Valid reports whether the profile is one of the four known roles.
func (p Profile) Valid() bool {
	_, ok := profileDescriptions[p]
	return ok
}

func (p Profile) String() string {
	if desc, ok := profileDescriptions[p]; ok {
		return desc
	}
	return fmt.Sprintf("Profile(%d)", int(p))
}

// ProfileFromCode resolves a profile by its numeric code.
func ProfileFromCode(code int) (Profile, error) {
	p := Profile(code)
	if !p.Valid() {
		return 0, fmt.Errorf("unknown profile code %d", code)
	}
	return p, nil
}

// ProfileFromDescription resolves a profile by its descriptor.
func ProfileFromDescription(description string) (Profile, error) {
	for p, desc := range profileDescriptions {
		if desc == description {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown profile description %q", description)
}
