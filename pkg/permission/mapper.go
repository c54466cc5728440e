package permission

// ToDto converts a stored permission to its transfer representation.
func ToDto(p Permission) PermissionDto {
	name := p.Name
	return PermissionDto{Name: &name, Description: p.Description}
}

// ToDtos converts a list of stored permissions.
func ToDtos(permissions []Permission) []PermissionDto {
	dtos := make([]PermissionDto, len(permissions))
	for i, p := range permissions {
		dtos[i] = ToDto(p)
	}
	return dtos
}

// ToEntity builds a permission from a DTO; absent fields become zero
// values.
func ToEntity(dto PermissionDto) Permission {
	var p Permission
	if dto.Name != nil {
		p.Name = *dto.Name
	}
	p.Description = dto.Description
	return p
}

// ApplyUpdate overwrites only the fields present in the DTO.
func ApplyUpdate(dto PermissionDto, p *Permission) {
	if dto.Name != nil {
		p.Name = *dto.Name
	}
	if dto.Description != nil {
		p.Description = dto.Description
	}
}
