package service

import (
	"context"
	"regexp"

	"github.com/iliyamo/movie-catalog/internal/apperr"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/projection"
)

type ProfileStore interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
	UpdateProfile(ctx context.Context, u model.User) error
	Delete(ctx context.Context, id uint64) error
}

// ProfileInput is a full or partial profile update.  Nil fields are
// absent.  Status is accepted only to reject attempts to change it.
type ProfileInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Age       *uint8
	Phone     *string
	Status    *model.Status
}

// Age bounds of a profile.
const (
	MinAge = 15
	MaxAge = 70
)

var e164 = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

// ProfileService exposes the requester's own account.  Every other id is
// reported as missing.
type ProfileService struct {
	users ProfileStore
}

func NewProfileService(users ProfileStore) *ProfileService { return &ProfileService{users: users} }

// List returns a one-element list holding the requester's profile.
func (s *ProfileService) List(ctx context.Context, req *model.User) ([]projection.Profile, error) {
	p, err := s.Get(ctx, req, idOf(req))
	if err != nil {
		return nil, err
	}
	return []projection.Profile{p}, nil
}

func (s *ProfileService) Get(ctx context.Context, req *model.User, id uint64) (projection.Profile, error) {
	u, err := s.own(ctx, req, id)
	if err != nil {
		return projection.Profile{}, err
	}
	return projection.ProfileOf(u), nil
}

// Update edits the requester's profile.  A full update requires an email
// and clears omitted optional fields.
func (s *ProfileService) Update(ctx context.Context, req *model.User, id uint64, in ProfileInput, partial bool) (projection.Profile, error) {
	u, err := s.own(ctx, req, id)
	if err != nil {
		return projection.Profile{}, err
	}
	if in.Status != nil && *in.Status != u.Status {
		return projection.Profile{}, apperr.Forbidden("status can only be changed by an administrator")
	}
	if !partial {
		if err := required(map[string]bool{"email": in.Email != nil}); err != nil {
			return projection.Profile{}, err
		}
		u.FirstName, u.LastName, u.Age, u.Phone = "", "", nil, nil
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.FirstName != nil {
		u.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		u.LastName = *in.LastName
	}
	if in.Age != nil {
		u.Age = in.Age
	}
	if in.Phone != nil {
		u.Phone = in.Phone
	}
	if err := validateProfile(u); err != nil {
		return projection.Profile{}, err
	}
	if err := s.users.UpdateProfile(ctx, u); err != nil {
		return projection.Profile{}, storeErr(err, "user not found")
	}
	return projection.ProfileOf(u), nil
}

// Delete removes the requester's account and everything it owns.
func (s *ProfileService) Delete(ctx context.Context, req *model.User, id uint64) error {
	if _, err := s.own(ctx, req, id); err != nil {
		return err
	}
	return storeErr(s.users.Delete(ctx, id), "user not found")
}

// own loads id if it is the requester's account.
func (s *ProfileService) own(ctx context.Context, req *model.User, id uint64) (model.User, error) {
	if err := requireUser(ctx, req); err != nil {
		return model.User{}, err
	}
	if id != req.ID {
		return model.User{}, apperr.NotFound("user not found")
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return model.User{}, storeErr(err, "user not found")
	}
	return u, nil
}

func validateProfile(u model.User) error {
	fields := map[string]string{}
	if u.Email == "" {
		fields["email"] = "this field may not be blank"
	}
	if u.Age != nil && (*u.Age < MinAge || *u.Age > MaxAge) {
		fields["age"] = "ensure this value is between 15 and 70"
	}
	if u.Phone != nil && !e164.MatchString(*u.Phone) {
		fields["phone_number"] = "enter a valid phone number"
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid profile", fields)
	}
	return nil
}

func idOf(u *model.User) uint64 {
	if u == nil {
		return 0
	}
	return u.ID
}
