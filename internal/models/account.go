package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccountBase holds the attributes shared by every account variant.
// IDs are unique only inside their own collection.
type AccountBase struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	Phone        string             `bson:"phone" json:"phone"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         Role               `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

func (a *AccountBase) GetID() primitive.ObjectID   { return a.ID }
func (a *AccountBase) SetID(id primitive.ObjectID) { a.ID = id }
func (a *AccountBase) GetEmail() string            { return a.Email }

// Account is implemented by pointers to the four variants.
type Account interface {
	GetID() primitive.ObjectID
	SetID(id primitive.ObjectID)
	GetEmail() string
}

type Citizen struct {
	AccountBase `bson:",inline"`
	Addresses   []Address `bson:"addresses" json:"addresses"`
	IsActive    bool      `bson:"is_active" json:"is_active"`
}

type Technician struct {
	AccountBase `bson:",inline"`
	Skills      []IssueType        `bson:"skills" json:"skills"`
	CreatedBy   primitive.ObjectID `bson:"created_by" json:"created_by"`
	Address     *Address           `bson:"address,omitempty" json:"address,omitempty"`
}

// HasSkill reports whether the technician lists t among its skills.
func (t *Technician) HasSkill(issueType IssueType) bool {
	for _, s := range t.Skills {
		if s == issueType {
			return true
		}
	}
	return false
}

type Officer struct {
	AccountBase `bson:",inline"`
	HeadID      primitive.ObjectID `bson:"head_id" json:"head_id"`
}

type Head struct {
	AccountBase `bson:",inline"`
	OfficerIDs  []primitive.ObjectID `bson:"officer_ids" json:"officer_ids"`
}

// Identity is the resolved caller: a role tag plus exactly one non-nil
// variant matching that tag.
type Identity struct {
	Role       Role
	Citizen    *Citizen
	Technician *Technician
	Officer    *Officer
	Head       *Head
}

func CitizenIdentity(c *Citizen) *Identity {
	return &Identity{Role: RoleCitizen, Citizen: c}
}

func TechnicianIdentity(t *Technician) *Identity {
	return &Identity{Role: RoleTechnician, Technician: t}
}

func OfficerIdentity(o *Officer) *Identity {
	return &Identity{Role: RoleOfficer, Officer: o}
}

func HeadIdentity(h *Head) *Identity {
	return &Identity{Role: RoleHead, Head: h}
}

// Base returns the shared account attributes of whichever variant is set.
func (i *Identity) Base() *AccountBase {
	switch i.Role {
	case RoleCitizen:
		return &i.Citizen.AccountBase
	case RoleTechnician:
		return &i.Technician.AccountBase
	case RoleOfficer:
		return &i.Officer.AccountBase
	case RoleHead:
		return &i.Head.AccountBase
	}
	return nil
}

func (i *Identity) ID() primitive.ObjectID { return i.Base().ID }
func (i *Identity) Email() string          { return i.Base().Email }
func (i *Identity) Name() string           { return i.Base().Name }
func (i *Identity) PasswordHash() string   { return i.Base().PasswordHash }

// Profile is the public view of an account, without collections.
type Profile struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
	Phone string             `json:"phone"`
	Role  Role               `json:"role"`
}

func (i *Identity) Profile() Profile {
	b := i.Base()
	return Profile{
		ID:    b.ID,
		Name:  b.Name,
		Email: b.Email,
		Phone: b.Phone,
		Role:  i.Role,
	}
}
