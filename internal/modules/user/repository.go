package user

import "context"

// Repository defines the data access methods for users.
type Repository interface {
	// Create inserts u and fills in its ID and RegisteredAt. A duplicate
	// email returns ErrEmailTaken.
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, bool, error)
	GetByID(ctx context.Context, id int64) (*User, bool, error)
	UpdateProfile(ctx context.Context, id int64, p *ProfileUpdate) (bool, error)
	UpdateRemote(ctx context.Context, id int64, remoteID *int64, role string) error
	List(ctx context.Context) ([]*User, error)
}
