package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jinzhu/copier"
	"github.com/tendant/chi-demo/app"
	dbutils "github.com/tendant/db-utils/db"

	"github.com/simple-school/school-security/pkg/auth"
	"github.com/simple-school/school-security/pkg/bootstrap"
	"github.com/simple-school/school-security/pkg/course"
	"github.com/simple-school/school-security/pkg/group"
	"github.com/simple-school/school-security/pkg/permission"
	"github.com/simple-school/school-security/pkg/router"
	"github.com/simple-school/school-security/pkg/student"
	"github.com/simple-school/school-security/pkg/user"
)

type SchoolDbConfig struct {
	Host     string `env:"SCHOOL_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"SCHOOL_PG_PORT" env-default:"5432"`
	Database string `env:"SCHOOL_PG_DATABASE" env-default:"school_db"`
	User     string `env:"SCHOOL_PG_USER" env-default:"school"`
	Password string `env:"SCHOOL_PG_PASSWORD" env-default:"pwd"`
}

func (d SchoolDbConfig) toDbConfig() dbutils.DbConfig {
	return dbutils.DbConfig{
		Host:     d.Host,
		Port:     d.Port,
		Database: d.Database,
		User:     d.User,
		Password: d.Password,
	}
}

type PasswordConfig struct {
	Cost int `env:"PASSWORD_HASH_COST" env-default:"10"`
}

type Config struct {
	SchoolDbConfig SchoolDbConfig
	AppConfig      app.AppConfig
	PasswordConfig PasswordConfig
}

func main() {

	config := Config{}
	cleanenv.ReadEnv(&config)

	server := app.DefaultApp()

	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	dbConfig := config.SchoolDbConfig.toDbConfig()
	pool, err := dbutils.NewDbPool(context.Background(), dbConfig)
	if err != nil {
		slog.Error("Failed creating dbpool", "db", dbConfig.Database, "host", dbConfig.Host, "port", dbConfig.Port, "user", dbConfig.User)
		os.Exit(-1)
	}

	hasher := auth.NewBcryptHasher(0)
	copier.Copy(hasher, &config.PasswordConfig)

	// Repositories
	courseRepo := course.NewPostgresRepository(pool)
	groupRepo := group.NewPostgresRepository(pool)
	studentRepo := student.NewPostgresRepository(pool)
	permissionRepo := permission.NewPostgresRepository(pool)
	userRepo := user.NewPostgresRepository(pool)

	// Seed the permission catalog and built-in accounts before serving
	seeder := bootstrap.NewSeeder(permissionRepo, userRepo, hasher)
	if err := seeder.Run(context.Background()); err != nil {
		slog.Error("Failed seeding initial data", "err", err)
		os.Exit(-1)
	}

	// Services and handlers
	courseHandle := course.NewHandle(course.NewService(courseRepo))
	groupHandle := group.NewHandle(group.NewService(groupRepo))
	studentHandle := student.NewHandle(student.NewService(studentRepo, groupRepo, courseRepo))
	permissionHandle := permission.NewHandle(permission.NewService(permissionRepo))
	userHandle := user.NewHandle(user.NewService(userRepo, permissionRepo, hasher))

	router.SetupRoutes(server.R, router.Config{
		CourseHandle:     courseHandle,
		GroupHandle:      groupHandle,
		StudentHandle:    studentHandle,
		PermissionHandle: permissionHandle,
		UserHandle:       userHandle,
		CredentialStore:  user.NewCredentialStore(userRepo),
		PasswordHasher:   hasher,
	})

	server.Run()

}
