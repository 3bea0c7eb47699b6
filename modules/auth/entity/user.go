package entity

import (
	coreEntity "scheduling-api/core/entity"
)

type User struct {
	Email    string `db:"email" json:"email"`
	Username string `db:"username" json:"username"`
	// Password holds the bcrypt hash; it never leaves the API.
	Password string `db:"password" json:"-"`
	coreEntity.BaseEntity
}
