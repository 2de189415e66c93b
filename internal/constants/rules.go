package constants

import (
	"github.com/kerimovok/go-pkg-utils/config"
	"github.com/kerimovok/go-pkg-utils/validator"
)

var EnvValidationRules = []validator.ValidationRule{
	// Server validation
	{
		Variable: "PORT",
		Default:  "5000",
		Rule:     config.IsValidPort,
		Message:  "server port is required and must be a valid port number",
	},
	{
		Variable: "GO_ENV",
		Default:  "development",
		Rule:     func(v string) bool { return v == "development" || v == "production" },
		Message:  "GO_ENV must be either 'development' or 'production'",
	},
	{
		Variable: "LOG_LEVEL",
		Default:  "info",
		Rule:     func(v string) bool { return v != "" },
		Message:  "log level is required",
	},

	// Link base URLs embedded in upload responses and metadata
	{
		Variable: "BACKEND_URL",
		Default:  "http://localhost:5000",
		Rule:     func(v string) bool { return v != "" },
		Message:  "backend base URL is required",
	},
	{
		Variable: "FRONTEND_URL",
		Default:  "http://localhost:3000",
		Rule:     func(v string) bool { return v != "" },
		Message:  "frontend base URL is required",
	},

	// Database validation
	{
		Variable: "DB_HOST",
		Rule:     func(v string) bool { return v != "" },
		Message:  "database host is required",
	},
	{
		Variable: "DB_PORT",
		Default:  "5432",
		Rule:     config.IsValidPort,
		Message:  "database port is required and must be a valid port number",
	},
	{
		Variable: "DB_USER",
		Rule:     func(v string) bool { return v != "" },
		Message:  "database user is required",
	},
	{
		Variable: "DB_NAME",
		Default:  "filevault",
		Rule:     func(v string) bool { return v != "" },
		Message:  "database name is required",
	},

	// Admin access validation
	{
		Variable: "ADMIN_USERNAME",
		Rule:     func(v string) bool { return v != "" },
		Message:  "admin username is required",
	},
	{
		Variable: "ADMIN_PASSWORD",
		Rule:     func(v string) bool { return len(v) >= 8 },
		Message:  "admin password is required and must be at least 8 characters",
	},
	{
		Variable: "ADMIN_JWT_SECRET",
		Rule:     func(v string) bool { return len(v) >= 32 },
		Message:  "admin JWT secret is required and must be at least 32 characters",
	},
}
