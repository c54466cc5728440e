package course

// ToDto converts a stored course to its transfer representation.
func ToDto(c Course) CourseDto {
	id := c.ID
	name := c.Name
	return CourseDto{
		ID:          &id,
		Name:        &name,
		Description: c.Description,
	}
}

// ToDtos converts a list of stored courses.
func ToDtos(courses []Course) []CourseDto {
	dtos := make([]CourseDto, len(courses))
	for i, c := range courses {
		dtos[i] = ToDto(c)
	}
	return dtos
}

// ToEntity builds a course from a DTO. Absent fields become zero values,
// which is what full-replace semantics require.
func ToEntity(dto CourseDto) Course {
	var c Course
	if dto.ID != nil {
		c.ID = *dto.ID
	}
	if dto.Name != nil {
		c.Name = *dto.Name
	}
	c.Description = dto.Description
	return c
}

// ApplyUpdate overwrites only the fields present in the DTO, leaving the
// rest of the entity untouched. This is the basis of PATCH.
func ApplyUpdate(dto CourseDto, c *Course) {
	if dto.Name != nil {
		c.Name = *dto.Name
	}
	if dto.Description != nil {
		c.Description = dto.Description
	}
}
