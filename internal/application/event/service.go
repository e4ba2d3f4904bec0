package event

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/kgpnow-api/internal/domain"
	"github.com/kgpnow-api/internal/pkg/id"
	"github.com/kgpnow-api/internal/pkg/validate"
)

// Poster is an uploaded image attached to a new event.
type Poster struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type Service interface {
	Create(ctx context.Context, creator *domain.Account, req domain.CreateEventRequest, poster *Poster) (*domain.EventView, error)
	Get(ctx context.Context, eventID string) (*domain.EventView, error)
	List(ctx context.Context, category string) ([]domain.EventView, error)
}

type eventStore interface {
	Put(ctx context.Context, e *domain.Event) error
	Get(ctx context.Context, eventID string) (*domain.Event, error)
	List(ctx context.Context, category string) ([]domain.Event, error)
	ExistsByDedupKey(ctx context.Context, key string) (bool, error)
}

type accountLookup interface {
	GetByID(ctx context.Context, userID string) (*domain.Account, error)
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
}

type service struct {
	repo     eventStore
	accounts accountLookup
	objects  objectStore
	logger   *slog.Logger
	now      func() time.Time
}

type ServiceDeps struct {
	EventRepo   eventStore
	AccountRepo accountLookup
	Objects     objectStore
	Logger      *slog.Logger
	Now         func() time.Time
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		repo:     deps.EventRepo,
		accounts: deps.AccountRepo,
		objects:  deps.Objects,
		logger:   deps.Logger,
		now:      deps.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// UploadsPrefix is the public path posters are served under.
const UploadsPrefix = "/uploads/"

func (s *service) Create(ctx context.Context, creator *domain.Account, req domain.CreateEventRequest, poster *Poster) (*domain.EventView, error) {
	req = trimRequest(req)
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	key := domain.EventDedupKey(req.Name, req.Date, req.Venue, req.Organization)
	exists, err := s.repo.ExistsByDedupKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("check duplicate event: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateEvent
	}

	now := s.now().UTC()
	e := &domain.Event{
		EventID:          id.New(),
		Name:             req.Name,
		Organization:     req.Organization,
		Description:      req.Description,
		Venue:            req.Venue,
		RegistrationLink: req.RegistrationLink,
		Date:             req.Date,
		Category:         req.Category,
		CreatedBy:        creator.ID,
		DedupKey:         key,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	var objectKey string
	if poster != nil {
		objectKey = "posters/" + id.New() + strings.ToLower(filepath.Ext(poster.Filename))
		if err := s.objects.Upload(ctx, objectKey, poster.Body, poster.ContentType); err != nil {
			return nil, fmt.Errorf("upload poster: %w", err)
		}
		path := UploadsPrefix + objectKey
		e.Poster = &path
	}

	if err := s.repo.Put(ctx, e); err != nil {
		if objectKey != "" {
			if derr := s.objects.Delete(ctx, objectKey); derr != nil {
				s.logger.Error("orphaned poster", "key", objectKey, "err", derr)
			}
		}
		return nil, fmt.Errorf("put event: %w", err)
	}

	return &domain.EventView{Event: *e, CreatedBy: creatorOf(creator)}, nil
}

func (s *service) Get(ctx context.Context, eventID string) (*domain.EventView, error) {
	if !id.Valid(eventID) {
		return nil, domain.ErrEventNotFound
	}
	e, err := s.repo.Get(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	creators := map[string]*domain.Creator{}
	v := domain.EventView{Event: *e, CreatedBy: s.creator(ctx, creators, e.CreatedBy)}
	return &v, nil
}

// List returns events newest first, optionally restricted to one category.
func (s *service) List(ctx context.Context, category string) ([]domain.EventView, error) {
	events, err := s.repo.List(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	creators := map[string]*domain.Creator{}
	out := make([]domain.EventView, 0, len(events))
	for _, e := range events {
		out = append(out, domain.EventView{Event: e, CreatedBy: s.creator(ctx, creators, e.CreatedBy)})
	}
	return out, nil
}

// creator resolves and memoizes an account projection. A missing or
// unreadable account leaves createdBy null rather than failing the read.
func (s *service) creator(ctx context.Context, seen map[string]*domain.Creator, userID string) *domain.Creator {
	if userID == "" {
		return nil
	}
	if c, ok := seen[userID]; ok {
		return c
	}
	a, err := s.accounts.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("populate event creator", "user_id", userID, "err", err)
	}
	c := creatorOf(a)
	seen[userID] = c
	return c
}

func creatorOf(a *domain.Account) *domain.Creator {
	if a == nil {
		return nil
	}
	return &domain.Creator{ID: a.ID, Name: a.Name, Email: a.Email}
}

func trimRequest(r domain.CreateEventRequest) domain.CreateEventRequest {
	r.Name = strings.TrimSpace(r.Name)
	r.Organization = strings.TrimSpace(r.Organization)
	r.Description = strings.TrimSpace(r.Description)
	r.Venue = strings.TrimSpace(r.Venue)
	r.RegistrationLink = strings.TrimSpace(r.RegistrationLink)
	r.Date = strings.TrimSpace(r.Date)
	r.Category = strings.TrimSpace(r.Category)
	return r
}
