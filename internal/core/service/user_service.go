package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/userhub/user-management/internal/core/domain"
	"github.com/userhub/user-management/internal/core/ports"
)

const (
	defaultPage  = 1
	defaultCount = 10
	maxCount     = 100

	// maxPage keeps (page-1)*count within int for any count <= maxCount.
	maxPage = math.MaxInt/maxCount + 1
)

// UserService implements registration, profile updates, authentication and listing.
type UserService struct {
	repo       ports.UserRepository
	bcryptCost int
	logger     zerolog.Logger
	events     ports.UserEventQueue
	now        func() time.Time
}

func NewUserService(repo ports.UserRepository, bcryptCost int, logger zerolog.Logger) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{repo: repo, bcryptCost: bcryptCost, logger: logger, now: time.Now}
}

// WithEvents makes the service announce registrations, updates and deletions
// on q. Without it no events are emitted.
func (s *UserService) WithEvents(q ports.UserEventQueue) *UserService {
	s.events = q
	return s
}

func (s *UserService) emit(event domain.UserEvent) {
	if s.events == nil {
		return
	}
	event.OccurredAt = s.now().UTC()
	if !s.events.Enqueue(event) {
		s.logger.Warn().Str("type", string(event.Type)).Int64("user_id", event.UserID).Msg("user event dropped")
	}
}

// Register creates a user after checking that neither the username nor the
// email is taken. Username is checked first and the first conflict wins.
// The unique indexes on the table remain the source of truth: a concurrent
// insert that slips past the checks still fails with the same conflict error.
func (s *UserService) Register(ctx context.Context, input ports.RegisterUserInput) (*domain.User, error) {
	taken, err := s.repo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrUsernameTaken
	}

	taken, err = s.repo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:     input.Name,
		LastName: input.LastName,
		Username: input.Username,
		Email:    input.Email,
		Password: string(hash),
	}
	if err := s.repo.Insert(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	s.emit(domain.UserEvent{Type: domain.UserRegistered, UserID: user.ID, Username: user.Username, Email: user.Email})
	return user, nil
}

// Update applies input to an existing user. Uniqueness is checked against all
// other rows only, so saving an unchanged username or email never conflicts.
func (s *UserService) Update(ctx context.Context, input ports.UpdateUserInput) error {
	if _, err := s.repo.FindByID(ctx, input.ID); err != nil {
		return err
	}

	taken, err := s.repo.ExistsByUsernameExcludingID(ctx, input.Username, input.ID)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrUsernameTaken
	}

	taken, err = s.repo.ExistsByEmailExcludingID(ctx, input.Email, input.ID)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrEmailTaken
	}

	err = s.repo.Update(ctx, &domain.User{
		ID:       input.ID,
		Name:     input.Name,
		LastName: input.LastName,
		Username: input.Username,
		Email:    input.Email,
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("user_id", input.ID).Msg("user updated")
	s.emit(domain.UserEvent{Type: domain.UserUpdated, UserID: input.ID, Username: input.Username, Email: input.Email})
	return nil
}

// Authenticate returns the full stored user when password matches its hash.
// An unknown username and a wrong password both yield ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) GetProfile(ctx context.Context, id int64) (*domain.UserProfile, error) {
	return s.repo.FindProfileByID(ctx, id)
}

// List returns one page of profiles. Page below 1 falls back to 1, count below
// 1 falls back to 10 and count is capped at 100. Pages past the end are empty.
func (s *UserService) List(ctx context.Context, input ports.ListUsersInput) (*domain.UserPage, error) {
	page, count := normalisePaging(input.Page, input.Count)

	users, total, err := s.repo.List(ctx, page, count)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.UserProfile{}
	}

	return &domain.UserPage{
		Users: users,
		Total: total,
		Page:  page,
		Count: count,
	}, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrUserNotFound
	}

	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	s.emit(domain.UserEvent{Type: domain.UserDeleted, UserID: id})
	return nil
}

func normalisePaging(page, count int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if page > maxPage {
		page = maxPage
	}
	if count < 1 {
		count = defaultCount
	}
	if count > maxCount {
		count = maxCount
	}
	return page, count
}
