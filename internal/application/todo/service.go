package todo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/brooksgarrett/todo-api/internal/domain"
)

type Service struct {
	repo Repo
	now  func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Create(ctx context.Context, creatorID, text string) (domain.Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Todo{}, domain.ErrMissingField("text")
	}

	return s.repo.Create(ctx, domain.Todo{
		ID:        uuid.NewString(),
		Text:      text,
		CreatorID: creatorID,
		CreatedAt: s.now().UTC(),
	})
}

func (s *Service) List(ctx context.Context, creatorID string) ([]domain.Todo, error) {
	return s.repo.ListByCreator(ctx, creatorID)
}

func (s *Service) Get(ctx context.Context, creatorID, id string) (domain.Todo, error) {
	if err := validateID(id); err != nil {
		return domain.Todo{}, err
	}
	return s.repo.Get(ctx, creatorID, id)
}

func (s *Service) Delete(ctx context.Context, creatorID, id string) (domain.Todo, error) {
	if err := validateID(id); err != nil {
		return domain.Todo{}, err
	}
	return s.repo.Delete(ctx, creatorID, id)
}

// Update applies a partial change. Completion is all-or-nothing: only an
// explicit true marks the todo done (stamping now); false or absent reopens it.
func (s *Service) Update(ctx context.Context, creatorID, id string, p domain.TodoPatch) (domain.Todo, error) {
	if err := validateID(id); err != nil {
		return domain.Todo{}, err
	}

	var ch Change
	if p.Text != nil {
		text := strings.TrimSpace(*p.Text)
		if text == "" {
			return domain.Todo{}, domain.ErrInvalidField("text", "must not be empty")
		}
		ch.Text = &text
	}

	var t domain.Todo
	t.SetCompleted(p.Completed != nil && *p.Completed, s.now())
	ch.Completed = t.Completed
	ch.CompletedAt = t.CompletedAt

	return s.repo.Update(ctx, creatorID, id, ch)
}

// validateID rejects malformed ids before any store round trip. Only the
// canonical lower-case form is accepted; uuid.Parse also takes urn, brace,
// bare-hex and upper-case spellings that the backends would treat differently.
func validateID(id string) error {
	u, err := uuid.Parse(id)
	if err != nil || u.String() != id {
		return domain.ErrInvalidID(id)
	}
	return nil
}
