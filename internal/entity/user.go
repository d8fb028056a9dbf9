package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// 用户角色
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// StringList JSON字符串数组列
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
	if len(b) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(b, l)
}

// Contains 是否包含指定项
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

// User 系统用户
type User struct {
	ID              uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	Username        string     `json:"username" gorm:"size:50;not null;uniqueIndex"`
	Password        string     `json:"-" gorm:"size:255;not null"` // bcrypt哈希
	Role            string     `json:"role" gorm:"size:20;default:user"`
	Permissions     StringList `json:"permissions" gorm:"type:json"`
	AllowedMachines StringList `json:"allowedMachines" gorm:"type:json"` // ["all"] 表示不限机台
	CreatedAt       time.Time  `json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}

// CanAccessMachine 是否有权限查看指定机台的数据
func (u *User) CanAccessMachine(machine string) bool {
	if u.Role == RoleAdmin {
		return true
	}
	if len(u.AllowedMachines) == 0 || u.AllowedMachines.Contains("all") {
		return true
	}
	return u.AllowedMachines.Contains(machine)
}
