package user

// ToEntity builds a user from a DTO; absent fields become zero values.
// The embedded permission DTOs contribute only their names, and the
// plaintext password is left for the service to hash.
func ToEntity(dto UserDto) User {
	var u User
	if dto.ID != nil {
		u.ID = *dto.ID
	}
	if dto.Username != nil {
		u.Username = *dto.Username
	}
	for _, p := range dto.Permissions {
		if p.Name != nil {
			u.Permissions = append(u.Permissions, *p.Name)
		}
	}
	return u
}

// ApplyUpdate overwrites only the fields present in the DTO. The
// password is handled separately by the service.
func ApplyUpdate(dto UserDto, u *User) {
	if dto.Username != nil {
		u.Username = *dto.Username
	}
	if dto.Permissions != nil {
		names := make([]string, 0, len(dto.Permissions))
		for _, p := range dto.Permissions {
			if p.Name != nil {
				names = append(names, *p.Name)
			}
		}
		u.Permissions = names
	}
}
