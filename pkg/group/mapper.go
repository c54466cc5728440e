package group

// ToDto converts a stored group to its transfer representation.
func ToDto(g Group) GroupDto {
	id := g.ID
	name := g.Name
	return GroupDto{ID: &id, Name: &name}
}

// ToDtos converts a list of stored groups.
func ToDtos(groups []Group) []GroupDto {
	dtos := make([]GroupDto, len(groups))
	for i, g := range groups {
		dtos[i] = ToDto(g)
	}
	return dtos
}

// ToEntity builds a group from a DTO; absent fields become zero values.
func ToEntity(dto GroupDto) Group {
	var g Group
	if dto.ID != nil {
		g.ID = *dto.ID
	}
	if dto.Name != nil {
		g.Name = *dto.Name
	}
	return g
}

// ApplyUpdate overwrites only the fields present in the DTO.
func ApplyUpdate(dto GroupDto, g *Group) {
	if dto.Name != nil {
		g.Name = *dto.Name
	}
}
