package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/Requisiciones-api/internal/domain"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
	"github.com/jhoicas/Requisiciones-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria.
type UserRepo struct {
	v view
}

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	var err error
	r.v.do(func(st *state) {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, user.Email) {
				err = domain.ErrEmailAlreadyExists
				return
			}
		}
		u := *user
		st.users[user.ID] = &u
	})
	return err
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	r.v.do(func(st *state) {
		if u, ok := st.users[id]; ok {
			c := *u
			out = &c
		}
	})
	return out, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	r.v.do(func(st *state) {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				c := *u
				out = &c
				return
			}
		}
	})
	return out, nil
}

func (r *UserRepo) Update(_ context.Context, user *entity.User) error {
	var err error
	r.v.do(func(st *state) {
		if _, ok := st.users[user.ID]; !ok {
			err = domain.ErrUserNotFound
			return
		}
		u := *user
		st.users[user.ID] = &u
	})
	return err
}

func (r *UserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	var list []*entity.User
	r.v.do(func(st *state) {
		for _, u := range st.users {
			c := *u
			list = append(list, &c)
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return page(list, limit, offset), nil
}
