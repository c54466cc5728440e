package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/simple-school/school-security/pkg/auth"
	"github.com/simple-school/school-security/pkg/course"
	"github.com/simple-school/school-security/pkg/group"
	"github.com/simple-school/school-security/pkg/permission"
	"github.com/simple-school/school-security/pkg/student"
	"github.com/simple-school/school-security/pkg/user"
)

// Config holds all the dependencies and handlers needed to setup routes
type Config struct {
	CourseHandle     *course.Handle
	GroupHandle      *group.Handle
	StudentHandle    *student.Handle
	PermissionHandle *permission.Handle
	UserHandle       *user.Handle

	// Basic-auth dependencies
	CredentialStore auth.CredentialStore
	PasswordHasher  auth.PasswordHasher
}

// SetupRoutes mounts the /api tree on the provided router. Every entity
// route sits behind basic authentication; permission checks happen in
// the services.
func SetupRoutes(router chi.Router, cfg Config) {
	router.Route("/api", func(r chi.Router) {
		r.Use(auth.BasicAuth(cfg.CredentialStore, cfg.PasswordHasher))

		r.Route("/courses", cfg.CourseHandle.RegisterRoutes)
		r.Route("/groups", cfg.GroupHandle.RegisterRoutes)
		r.Route("/students", cfg.StudentHandle.RegisterRoutes)
		r.Route("/permissions", cfg.PermissionHandle.RegisterRoutes)
		r.Route("/users", cfg.UserHandle.RegisterRoutes)
	})
}
