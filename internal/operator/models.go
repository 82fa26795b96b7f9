package operator

// Operator is a staff member allowed to run the label printer.
type Operator struct {
	ID          int    `db:"id" json:"id"`
	Username    string `db:"username" json:"username"`
	Password    string `db:"password" json:"-"`
	FullName    string `db:"full_name" json:"fullName"`
	AccessLevel string `db:"access_level" json:"accessLevel"`
	IsActive    bool   `db:"is_active" json:"isActive"`
}
