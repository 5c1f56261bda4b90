package enums

import "fmt"

// EmployeeRole categorizes back-office staff. Delivery employees are the
// assignable pool for out-for-delivery orders.
type EmployeeRole string

const (
	EmployeeRoleManager  EmployeeRole = "MANAGER"
	EmployeeRoleSales    EmployeeRole = "SALES"
	EmployeeRoleDelivery EmployeeRole = "DELIVERY"
	EmployeeRoleSupport  EmployeeRole = "SUPPORT"
)

var validEmployeeRoles = []EmployeeRole{
	EmployeeRoleManager,
	EmployeeRoleSales,
	EmployeeRoleDelivery,
	EmployeeRoleSupport,
}

// String implements fmt.Stringer.
func (e EmployeeRole) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EmployeeRole.
func (e EmployeeRole) IsValid() bool {
	for _, candidate := range validEmployeeRoles {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEmployeeRole converts raw input into an EmployeeRole.
func ParseEmployeeRole(value string) (EmployeeRole, error) {
	for _, candidate := range validEmployeeRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid employee role %q", value)
}
