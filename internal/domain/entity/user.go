package entity

import (
	"time"

	"github.com/MelissaSequeira/reimburse-portal/internal/domain/chain"
)

// Role is a user's position in the institution.
type Role string

const (
	RoleStudent    Role = "Student"
	RoleTeacher    Role = "Teacher"
	RoleHOD        Role = "HOD"
	RolePrincipal  Role = "Principal"
	RoleMD         Role = "MD"
	RoleAccountant Role = "Accountant"
	RoleAdmin      Role = "Admin"
)

var validRoles = map[Role]bool{
	RoleStudent:    true,
	RoleTeacher:    true,
	RoleHOD:        true,
	RolePrincipal:  true,
	RoleMD:         true,
	RoleAccountant: true,
	RoleAdmin:      true,
}

// roleStages maps reviewer roles to the chain stage they act on.
var roleStages = map[Role]chain.Stage{
	RoleTeacher:    chain.StageTeacher,
	RoleHOD:        chain.StageHOD,
	RolePrincipal:  chain.StagePrincipal,
	RoleMD:         chain.StageMD,
	RoleAccountant: chain.StageAccountant,
}

// IsValid returns true if the role is known.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// DepartmentScoped returns true for roles whose membership is tied to a
// department. Principal, MD, Accountant and Admin act institution-wide.
func (r Role) DepartmentScoped() bool {
	return r == RoleStudent || r == RoleTeacher || r == RoleHOD
}

// ReviewsStage returns the chain stage the role reviews, if any.
func (r Role) ReviewsStage() (chain.Stage, bool) {
	s, ok := roleStages[r]
	return s, ok
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// User is an identity record: who someone is, what they do, and which
// department they belong to.
type User struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"created_at"`
}

// Actor is the request-scoped caller context passed into every engine
// operation. It replaces any ambient session lookup: handlers resolve it
// once and services trust it.
type Actor struct {
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	Department string `json:"department"`
}
