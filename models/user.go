// Package models, uygulamanın domain modellerini tanımlar.
//
// Kimlik (User) kayıtları dış CRUD katmanına aittir; bu servis yalnızca
// last_active alanını günceller ve okur.
package models

import "time"

// Role, bir kimliğin bağlantı havuzundaki yerini belirler.
// Go'da enum yoktur: typed string constant'lar kullanılır.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid, rolün bilinen bir değer olup olmadığını döner.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User, sisteme kayıtlı bir kimliği temsil eder.
type User struct {
	ID         string     `json:"id"`
	Username   string     `json:"username"`
	Role       Role       `json:"role"`
	LastActive *time.Time `json:"last_active"` // nil = hiç aktif olmadı
	CreatedAt  time.Time  `json:"created_at"`
}

// Caller, kimliği dış katmanda doğrulanmış isteği yapan taraftır.
// Servisler kimlik string'ine güvenir; token doğrulaması middleware'dadır.
type Caller struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// IsAdmin, çağıranın yönetici olup olmadığını döner.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
