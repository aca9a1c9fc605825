package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aieng/conversations-api/internal/models"
)

// fakeUnitOfWork runs the workflow against in-memory repositories. No
// transaction semantics are simulated beyond counting invocations; the
// repositories record every write so tests can assert exactly what would
// have been committed.
type fakeUnitOfWork struct {
	repos   *fakeRepositories
	doCalls int
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{
		repos: &fakeRepositories{
			users:         &fakeUserRepo{byID: make(map[uuid.UUID]*models.User)},
			modelVersions: &fakeModelVersionRepo{byID: make(map[uuid.UUID]*models.ModelVersion)},
			conversations: &fakeConversationRepo{byID: make(map[uuid.UUID]*models.Conversation)},
		},
	}
}

func (u *fakeUnitOfWork) Do(ctx context.Context, fn func(Repositories) error) error {
	u.doCalls++
	return fn(u.repos)
}

type fakeRepositories struct {
	users         *fakeUserRepo
	modelVersions *fakeModelVersionRepo
	conversations *fakeConversationRepo
}

func (r *fakeRepositories) Users() UserRepository                 { return r.users }
func (r *fakeRepositories) ModelVersions() ModelVersionRepository { return r.modelVersions }
func (r *fakeRepositories) Conversations() ConversationRepository { return r.conversations }

type fakeUserRepo struct {
	byID        map[uuid.UUID]*models.User
	createErr   error
	updateErr   error
	updateCalls int
}

func (f *fakeUserRepo) seed(email string) *models.User {
	user := &models.User{
		ID:        uuid.New(),
		Email:     email,
		CreatedAt: time.Now().UTC(),
		IsActive:  true,
	}
	f.byID[user.ID] = user
	return user
}

func (f *fakeUserRepo) GetActiveByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f.byID[id]
	if !ok || !user.IsActive {
		return nil, nil
	}
	return user, nil
}

func (f *fakeUserRepo) ListActive(ctx context.Context, p ListParams) ([]*models.User, error) {
	var users []*models.User
	for _, user := range f.byID {
		if user.IsActive {
			users = append(users, user)
		}
	}
	return users, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, email string) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.seed(email), nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	f.updateCalls++
	if f.updateErr != nil {
		return f.updateErr
	}
	f.byID[user.ID] = user
	return nil
}

type fakeModelVersionRepo struct {
	byID        map[uuid.UUID]*models.ModelVersion
	updateCalls int
}

func (f *fakeModelVersionRepo) seed(provider, modelName, versionTag string) *models.ModelVersion {
	mv := &models.ModelVersion{
		ID:         uuid.New(),
		Provider:   provider,
		ModelName:  modelName,
		VersionTag: versionTag,
		CreatedAt:  time.Now().UTC(),
		IsActive:   true,
	}
	f.byID[mv.ID] = mv
	return mv
}

func (f *fakeModelVersionRepo) GetActiveByID(ctx context.Context, id uuid.UUID) (*models.ModelVersion, error) {
	mv, ok := f.byID[id]
	if !ok || !mv.IsActive {
		return nil, nil
	}
	return mv, nil
}

func (f *fakeModelVersionRepo) ListActive(ctx context.Context, p ListParams) ([]*models.ModelVersion, error) {
	var versions []*models.ModelVersion
	for _, mv := range f.byID {
		if mv.IsActive {
			versions = append(versions, mv)
		}
	}
	return versions, nil
}

func (f *fakeModelVersionRepo) Create(ctx context.Context, provider, modelName, versionTag string) (*models.ModelVersion, error) {
	return f.seed(provider, modelName, versionTag), nil
}

func (f *fakeModelVersionRepo) Update(ctx context.Context, mv *models.ModelVersion) error {
	f.updateCalls++
	f.byID[mv.ID] = mv
	return nil
}

type fakeConversationRepo struct {
	byID                    map[uuid.UUID]*models.Conversation
	createCalls             int
	updateCalls             int
	deactivatedUsers        []uuid.UUID
	deactivatedModelVersion []uuid.UUID
}

func (f *fakeConversationRepo) seed(userID, modelVersionID uuid.UUID) *models.Conversation {
	c := &models.Conversation{
		ID:             uuid.New(),
		UserID:         userID,
		ModelVersionID: modelVersionID,
		Prompt:         "seeded prompt",
		Response:       "seeded response",
		CreatedAt:      time.Now().UTC(),
		IsActive:       true,
	}
	f.byID[c.ID] = c
	return c
}

func (f *fakeConversationRepo) GetActiveByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	c, ok := f.byID[id]
	if !ok || !c.IsActive {
		return nil, nil
	}
	return c, nil
}

func (f *fakeConversationRepo) ListActive(ctx context.Context, p ConversationListParams) ([]*models.Conversation, error) {
	var conversations []*models.Conversation
	for _, c := range f.byID {
		if !c.IsActive {
			continue
		}
		if p.UserID != nil && c.UserID != *p.UserID {
			continue
		}
		conversations = append(conversations, c)
	}
	return conversations, nil
}

func (f *fakeConversationRepo) Create(ctx context.Context, c *models.Conversation) error {
	f.createCalls++
	c.ID = uuid.New()
	c.CreatedAt = time.Now().UTC()
	c.IsActive = true
	f.byID[c.ID] = c
	return nil
}

func (f *fakeConversationRepo) Update(ctx context.Context, c *models.Conversation) error {
	f.updateCalls++
	f.byID[c.ID] = c
	return nil
}

func (f *fakeConversationRepo) DeactivateByUserID(ctx context.Context, userID uuid.UUID) error {
	f.deactivatedUsers = append(f.deactivatedUsers, userID)
	for _, c := range f.byID {
		if c.UserID == userID {
			c.IsActive = false
		}
	}
	return nil
}

func (f *fakeConversationRepo) DeactivateByModelVersionID(ctx context.Context, modelVersionID uuid.UUID) error {
	f.deactivatedModelVersion = append(f.deactivatedModelVersion, modelVersionID)
	for _, c := range f.byID {
		if c.ModelVersionID == modelVersionID {
			c.IsActive = false
		}
	}
	return nil
}
