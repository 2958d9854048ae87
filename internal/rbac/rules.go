package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"quiz:generate",
		"quiz:submit",
		"quiz:feedback-own",
		"quiz:list-own",
		"grade:view-own",
	},
	"instructor": {
		"question:create",
		"question:update",
		"question:delete",
		"bank:view",
		"module:set_assessment",
		"quiz:list-all",
		"users:list",
	},
	"admin": {
		"*", // everything
	},
}
