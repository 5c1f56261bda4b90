package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/blushmart/blushmart-backend/pkg/enums"
)

// Employee is a back-office staff record. Delivery employees can be assigned
// to out-for-delivery orders.
type Employee struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string             `gorm:"column:name;not null"`
	Phone     string             `gorm:"column:phone;not null;uniqueIndex"`
	Role      enums.EmployeeRole `gorm:"column:role;not null;index"`
	IsActive  bool               `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
