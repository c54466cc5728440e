package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/simple-school/school-security/pkg/auth"
	"github.com/simple-school/school-security/pkg/permission"
	"github.com/simple-school/school-security/pkg/user"
)

// Resources covered by the permission catalog.
var resources = []string{"COURSE", "GROUP", "STUDENT", "PERMISSION", "USER"}

// Actions defined per resource.
var actions = []string{
	auth.ActionCreate,
	auth.ActionRead,
	auth.ActionUpdate,
	auth.ActionDelete,
}

// SeedUser describes one account ensured at startup.
type SeedUser struct {
	Username    string
	Password    string
	Permissions []string
}

// DefaultSeedUsers returns the built-in accounts and their grants.
func DefaultSeedUsers() []SeedUser {
	return []SeedUser{
		{
			Username: "user",
			Password: "userPass",
			Permissions: []string{
				"COURSE_READ", "GROUP_READ", "STUDENT_READ",
			},
		},
		{
			Username: "teacher",
			Password: "teacherPass",
			Permissions: []string{
				"COURSE_CREATE", "COURSE_READ", "COURSE_UPDATE", "COURSE_DELETE",
				"GROUP_CREATE", "GROUP_READ", "GROUP_UPDATE", "GROUP_DELETE",
				"STUDENT_READ",
			},
		},
		{
			Username:    "admin",
			Password:    "adminPass",
			Permissions: grants("COURSE", "GROUP", "STUDENT"),
		},
		{
			Username: "manager",
			Password: "managerPass",
			Permissions: append(grants("COURSE", "GROUP", "STUDENT"),
				"USER_READ", "USER_UPDATE"),
		},
		{
			Username:    "super_admin",
			Password:    "superAdminPass",
			Permissions: grants(resources...),
		},
	}
}

func grants(res ...string) []string {
	var names []string
	for _, r := range res {
		for _, a := range actions {
			names = append(names, r+"_"+a)
		}
	}
	return names
}

// Seeder ensures the permission catalog and built-in accounts exist
// before the server starts handling requests. Every step is idempotent,
// so restarts never duplicate or overwrite existing data.
type Seeder struct {
	permissions permission.Repository
	users       user.Repository
	hasher      auth.PasswordHasher
}

// NewSeeder creates a seeder over the given repositories.
func NewSeeder(permissions permission.Repository, users user.Repository, hasher auth.PasswordHasher) *Seeder {
	return &Seeder{permissions: permissions, users: users, hasher: hasher}
}

// Run seeds permissions first, then users, so user grants always
// reference existing permissions.
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.ensurePermissions(ctx); err != nil {
		return fmt.Errorf("failed to seed permissions: %w", err)
	}
	if err := s.ensureUsers(ctx, DefaultSeedUsers()); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	return nil
}

func (s *Seeder) ensurePermissions(ctx context.Context) error {
	created := 0
	for _, res := range resources {
		for _, action := range actions {
			name := res + "_" + action
			exists, err := s.permissions.ExistsByName(ctx, name)
			if err != nil {
				return err
			}
			if exists {
				continue
			}

			description := fmt.Sprintf("Allows %s on %s", action, res)
			_, err = s.permissions.Save(ctx, permission.Permission{
				Name:        name,
				Description: &description,
			})
			if err != nil {
				return err
			}
			created++
		}
	}

	slog.Info("Permission catalog ensured",
		"total", len(resources)*len(actions),
		"created", created)
	return nil
}

func (s *Seeder) ensureUsers(ctx context.Context, seeds []SeedUser) error {
	for _, seed := range seeds {
		_, err := s.users.FindByUsername(ctx, seed.Username)
		if err == nil {
			slog.Info("Seed user already exists", "username", seed.Username)
			continue
		}
		if !errors.Is(err, user.ErrUserNotFound) {
			return err
		}

		hash, err := s.hasher.Hash(seed.Password)
		if err != nil {
			return err
		}

		_, err = s.users.Save(ctx, user.User{
			Username:     seed.Username,
			PasswordHash: hash,
			Permissions:  seed.Permissions,
		})
		if err != nil {
			return err
		}
		slog.Info("Seed user created",
			"username", seed.Username,
			"permissions", len(seed.Permissions))
	}
	return nil
}
