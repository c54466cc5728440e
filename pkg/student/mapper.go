package student

import (
	"github.com/google/uuid"
)

// ToEntity builds a student from a DTO; absent fields become zero values.
// Embedded group and course DTOs contribute only their ids.
func ToEntity(dto StudentDto) Student {
	var s Student
	if dto.ID != nil {
		s.ID = *dto.ID
	}
	if dto.FirstName != nil {
		s.FirstName = *dto.FirstName
	}
	if dto.LastName != nil {
		s.LastName = *dto.LastName
	}
	if dto.Group != nil && dto.Group.ID != nil {
		id := *dto.Group.ID
		s.GroupID = &id
	}
	for _, c := range dto.Courses {
		if c.ID != nil {
			s.CourseIDs = append(s.CourseIDs, *c.ID)
		}
	}
	return s
}

// ApplyUpdate overwrites only the fields present in the DTO.
func ApplyUpdate(dto StudentDto, s *Student) {
	if dto.FirstName != nil {
		s.FirstName = *dto.FirstName
	}
	if dto.LastName != nil {
		s.LastName = *dto.LastName
	}
	if dto.Group != nil {
		if dto.Group.ID != nil {
			id := *dto.Group.ID
			s.GroupID = &id
		} else {
			s.GroupID = nil
		}
	}
	if dto.Courses != nil {
		ids := make([]uuid.UUID, 0, len(dto.Courses))
		for _, c := range dto.Courses {
			if c.ID != nil {
				ids = append(ids, *c.ID)
			}
		}
		s.CourseIDs = ids
	}
}
