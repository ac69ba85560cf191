package domain

import "time"

type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleCustomer UserRole = "customer"
	UserRoleDelivery UserRole = "delivery"
)

type Permission string

const (
	PermissionProductsWrite   Permission = "products:write"
	PermissionCategoriesWrite Permission = "categories:write"
	PermissionOrdersCreate    Permission = "orders:create"
	PermissionOrdersManage    Permission = "orders:manage"
)

var rolePermissions = map[UserRole][]Permission{
	UserRoleAdmin: {
		PermissionProductsWrite,
		PermissionCategoriesWrite,
		PermissionOrdersCreate,
		PermissionOrdersManage,
	},
	UserRoleCustomer: {PermissionOrdersCreate},
	UserRoleDelivery: {},
}

func (r UserRole) HasPermission(p Permission) bool {
	for _, granted := range rolePermissions[r] {
		if granted == p {
			return true
		}
	}
	return false
}

type User struct {
	ID        uint64
	Name      string
	Email     string
	Password  string
	Role      UserRole
	CreatedAt time.Time
}
