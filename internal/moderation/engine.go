package moderation

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/storyloom/backend/internal/models"
	"github.com/storyloom/backend/internal/repositories"
	"gorm.io/gorm"
)

const (
	automodUsername = "automod"
	automodEmail    = "automod@system.local"
)

// Actor is the resolved identity performing an operation. The engine never
// authenticates; it only authorizes against the supplied role.
type Actor struct {
	ID   uint
	Role string
}

// Elevated reports whether the actor holds a moderation-capable role
func (a Actor) Elevated() bool {
	return a.Role == models.RoleModerator || a.Role == models.RoleSuperadmin
}

// TextGenerator is the AI text-generation collaborator. A failure or empty
// response aborts the generate flow with no partial story persisted.
type TextGenerator interface {
	Generate(ctx context.Context, prompt, model string, temperature float64) (text, providerMessageID string, err error)
}

// Engine orchestrates the story lifecycle state machine: it screens content
// on every mutation, attributes automatic flags to the automod account, and
// performs the moderator approve/reject transitions that close dependent
// flags and notify authors.
type Engine struct {
	db         *gorm.DB
	classifier *Classifier
	generator  TextGenerator
	log        *logrus.Logger
}

// NewEngine creates a moderation engine
func NewEngine(db *gorm.DB, classifier *Classifier, generator TextGenerator, log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.New()
	}
	return &Engine{db: db, classifier: classifier, generator: generator, log: log}
}

// getStory loads a live story or reports ErrNotFound. Soft-deleted rows are
// excluded by the DeletedAt clause GORM injects.
func getStory(tx *gorm.DB, id uuid.UUID) (*models.Story, error) {
	var story models.Story
	err := tx.Preload("Tags").Preload("User").Where("id = ?", id).First(&story).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &story, nil
}

// authorize enforces the owner-or-elevated rule for owner-facing transitions
func authorize(story *models.Story, actor Actor) error {
	if story.UserID != actor.ID && !actor.Elevated() {
		return ErrNotAuthorized
	}
	return nil
}

// CreateStory screens a human-authored submission and persists it. Flagged
// content lands in draft with an open automod flag; clean content honors the
// submitted publish wish.
func (e *Engine) CreateStory(actor Actor, req models.CreateStoryRequest) (*models.Story, error) {
	flagged, categories := e.classifier.Classify([]string{req.Title, req.Content})

	status := models.StoryStatusDraft
	if !flagged && req.IsPublished {
		status = models.StoryStatusPublished
	}

	story := &models.Story{
		UserID:        actor.ID,
		Title:         req.Title,
		Header:        req.Header,
		Content:       req.Content,
		CoverImageURL: req.CoverImageURL,
		IsFlagged:     flagged,
		FlagSource:    models.FlagSourceNone,
		Status:        status,
		Source:        models.SourceUser,
		WordsCount:    countWords(req.Content),
		Version:       1,
	}
	if flagged {
		story.FlagSource = models.FlagSourceAI
	}

	err := e.db.Transaction(func(tx *gorm.DB) error {
		tags, err := repositories.NewPostgresTagRepository(tx).FindOrCreateByNames(req.TagNames)
		if err != nil {
			return err
		}
		story.Tags = tags

		if err := tx.Create(story).Error; err != nil {
			return err
		}
		if flagged {
			return e.createSystemFlag(tx, story.ID, categories, "Profanity detected by AI")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return story, nil
}

// GenerateStory produces a story via the AI collaborator, screens the
// result, and persists story plus first revision. Generation failures abort
// the flow; nothing is committed.
func (e *Engine) GenerateStory(ctx context.Context, actor Actor, req models.GenerateStoryRequest) (*models.Story, error) {
	prompt := buildStoryPrompt(req.Prompt, req.Genre, req.Tone, req.LengthLabel)

	text, msgID, err := e.generator.Generate(ctx, prompt, req.ModelName, req.Temperature)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}

	title := req.Title
	if title == "" {
		title = defaultTitleFrom(text)
	}
	flagged, categories := e.classifier.Classify([]string{title, text})

	status := models.StoryStatusGenerated
	if !flagged && req.PublishNow {
		status = models.StoryStatusPublished
	}

	story := &models.Story{
		UserID:            actor.ID,
		Title:             title,
		Header:            req.Summary,
		Content:           text,
		CoverImageURL:     req.CoverImageURL,
		IsFlagged:         flagged,
		FlagSource:        models.FlagSourceNone,
		Status:            status,
		Source:            models.SourceAI,
		Genre:             req.Genre,
		Tone:              req.Tone,
		Summary:           req.Summary,
		WordsCount:        countWords(text),
		Prompt:            req.Prompt,
		ModelName:         req.ModelName,
		Temperature:       req.Temperature,
		ProviderMessageID: msgID,
		Version:           1,
	}
	if flagged {
		story.FlagSource = models.FlagSourceAI
	}

	err = e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(story).Error; err != nil {
			return err
		}
		rev := &models.StoryRevision{
			StoryID:           story.ID,
			UserID:            actor.ID,
			Version:           1,
			Content:           text,
			Prompt:            req.Prompt,
			ModelName:         req.ModelName,
			ProviderMessageID: msgID,
		}
		if err := tx.Create(rev).Error; err != nil {
			return err
		}
		if flagged {
			return e.createSystemFlag(tx, story.ID, categories, "Profanity detected by AI")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return story, nil
}

// UpdateStory applies an owner edit. Content is re-screened only when title
// or content changed; a fresh hit revokes publication and opens a new
// automod flag.
func (e *Engine) UpdateStory(actor Actor, storyID uuid.UUID, req models.UpdateStoryRequest) (*models.Story, error) {
	var story *models.Story
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var err error
		story, err = getStory(tx, storyID)
		if err != nil {
			return err
		}
		if err := authorize(story, actor); err != nil {
			return err
		}

		textChanged := false
		if req.Title != nil && *req.Title != story.Title {
			story.Title = *req.Title
			textChanged = true
		}
		if req.Content != nil && *req.Content != story.Content {
			story.Content = *req.Content
			story.WordsCount = countWords(story.Content)
			textChanged = true
		}
		if req.Header != nil {
			story.Header = *req.Header
		}
		if req.CoverImageURL != nil {
			story.CoverImageURL = *req.CoverImageURL
		}

		if req.TagNames != nil {
			tags, err := repositories.NewPostgresTagRepository(tx).FindOrCreateByNames(req.TagNames)
			if err != nil {
				return err
			}
			if err := tx.Model(story).Association("Tags").Replace(tags); err != nil {
				return err
			}
			story.Tags = tags
		}

		if textChanged {
			flagged, categories := e.classifier.Classify([]string{story.Title, story.Content})
			if flagged {
				story.IsFlagged = true
				story.FlagSource = models.FlagSourceAI
				if story.Status == models.StoryStatusPublished {
					story.Status = story.UnpublishedStatus()
				}
				if err := e.createSystemFlag(tx, story.ID, categories, "Profanity detected on update"); err != nil {
					return err
				}
			}
		}

		return tx.Save(story).Error
	})
	if err != nil {
		return nil, err
	}
	return story, nil
}

// RegenerateWithFeedback replaces an AI story's content from reader
// feedback: version increments by one, publication is revoked, and exactly
// one new revision row is appended.
func (e *Engine) RegenerateWithFeedback(ctx context.Context, actor Actor, storyID uuid.UUID, feedback string) (*models.Story, error) {
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return nil, validationf("feedback is required")
	}

	story, err := getStory(e.db, storyID)
	if err != nil {
		return nil, err
	}
	if err := authorize(story, actor); err != nil {
		return nil, err
	}
	if story.Source != models.SourceAI {
		return nil, validationf("story was not AI-generated")
	}

	prompt := buildRegenPrompt(story.Prompt, feedback)
	text, msgID, err := e.generator.Generate(ctx, prompt, story.ModelName, story.Temperature)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}

	flagged, _ := e.classifier.Classify([]string{story.Title, text})

	err = e.db.Transaction(func(tx *gorm.DB) error {
		story.Version++
		story.Content = text
		story.WordsCount = countWords(text)
		story.LastFeedback = feedback
		story.IsFlagged = flagged
		if flagged {
			story.FlagSource = models.FlagSourceAI
		}
		story.ProviderMessageID = msgID
		story.Status = models.StoryStatusGenerated

		if err := tx.Save(story).Error; err != nil {
			return err
		}
		rev := &models.StoryRevision{
			StoryID:           story.ID,
			UserID:            actor.ID,
			Version:           story.Version,
			Content:           text,
			Prompt:            prompt,
			Feedback:          feedback,
			ModelName:         story.ModelName,
			ProviderMessageID: msgID,
		}
		return tx.Create(rev).Error
	})
	if err != nil {
		return nil, err
	}
	return story, nil
}

// PublishStory makes a story visible. Flagged content cannot be published;
// only moderator approval clears the flag.
func (e *Engine) PublishStory(actor Actor, storyID uuid.UUID) (*models.Story, error) {
	story, err := getStory(e.db, storyID)
	if err != nil {
		return nil, err
	}
	if err := authorize(story, actor); err != nil {
		return nil, err
	}
	if story.IsFlagged {
		return nil, validationf("story is flagged and cannot be published")
	}

	story.Status = models.StoryStatusPublished
	if err := e.db.Save(story).Error; err != nil {
		return nil, err
	}
	return story, nil
}

// UnpublishStory withdraws a story from publication
func (e *Engine) UnpublishStory(actor Actor, storyID uuid.UUID) (*models.Story, error) {
	story, err := getStory(e.db, storyID)
	if err != nil {
		return nil, err
	}
	if err := authorize(story, actor); err != nil {
		return nil, err
	}

	story.Status = models.StoryStatusGenerated
	if err := e.db.Save(story).Error; err != nil {
		return nil, err
	}
	return story, nil
}

// DeleteStory soft-deletes a story; it disappears from every listing
func (e *Engine) DeleteStory(actor Actor, storyID uuid.UUID) error {
	story, err := getStory(e.db, storyID)
	if err != nil {
		return err
	}
	if err := authorize(story, actor); err != nil {
		return err
	}
	return e.db.Delete(story).Error
}

// ApproveStory publishes a story and clears its flag. The status mutation
// and the bulk flag close commit in one transaction; the author
// notification is emitted after commit and is best-effort.
func (e *Engine) ApproveStory(actor Actor, storyID uuid.UUID, note string) (*models.Story, error) {
	if !actor.Elevated() {
		return nil, ErrNotAuthorized
	}
	note = strings.TrimSpace(note)

	var story *models.Story
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var err error
		story, err = getStory(tx, storyID)
		if err != nil {
			return err
		}

		story.Status = models.StoryStatusPublished
		story.IsFlagged = false
		story.FlagSource = models.FlagSourceNone
		if err := tx.Save(story).Error; err != nil {
			return err
		}

		_, err = repositories.NewPostgresFlagRepository(tx).
			CloseAllOpenForStory(story.ID, actor.ID, models.FlagApproved, note)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.notify(story.UserID, models.ActionStoryApproved, actor.ID, "story", story.ID.String())
	return story, nil
}

// RejectStory puts a story in the rejected terminal state. A non-blank
// reason is mandatory; open flags close as rejected with the reason
// appended, and the author is notified best-effort after commit.
func (e *Engine) RejectStory(actor Actor, storyID uuid.UUID, reason string) (*models.Story, error) {
	if !actor.Elevated() {
		return nil, ErrNotAuthorized
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, validationf("a reason is required to reject a story")
	}

	var story *models.Story
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var err error
		story, err = getStory(tx, storyID)
		if err != nil {
			return err
		}

		story.Status = models.StoryStatusRejected
		story.IsFlagged = true
		if err := tx.Save(story).Error; err != nil {
			return err
		}

		_, err = repositories.NewPostgresFlagRepository(tx).
			CloseAllOpenForStory(story.ID, actor.ID, models.FlagRejected, reason)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.notify(story.UserID, models.ActionStoryRejected, actor.ID, "story", story.ID.String())
	return story, nil
}

// notify records a notification; failures are logged and swallowed so a
// moderation decision never depends on its side-channel delivery.
func (e *Engine) notify(recipientID uint, action string, actorID uint, targetType, targetID string) {
	n := &models.Notification{
		RecipientID: recipientID,
		ActorID:     &actorID,
		Action:      action,
		TargetType:  targetType,
		TargetID:    targetID,
	}
	if err := repositories.NewPostgresNotificationRepository(e.db).CreateNotification(n); err != nil {
		e.log.WithError(err).WithFields(logrus.Fields{
			"recipient_id": recipientID,
			"action":       action,
		}).Warn("failed to record notification")
	}
}

// automodUser returns the canonical automod account, lazily creating it on
// first use. Creation is idempotent: a concurrent inserter winning the race
// surfaces as a unique violation, after which the existing row is fetched.
// Each insert runs in a nested transaction so a violation only rolls back
// its savepoint; on Postgres a failed insert would otherwise abort the
// whole outer transaction and poison the re-fetch.
func (e *Engine) automodUser(tx *gorm.DB) (*models.User, error) {
	users := repositories.NewPostgresUserRepository(tx)

	user, err := users.GetUserByUsername(automodUsername)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role, err := users.FirstRoleIn(models.RoleModerator, models.RoleSuperadmin, models.RoleCreator)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		role = &models.Role{Name: models.RoleModerator, Description: "System moderator role"}
		createErr := tx.Transaction(func(tx2 *gorm.DB) error {
			return repositories.NewPostgresUserRepository(tx2).CreateRole(role)
		})
		if createErr != nil {
			existing, fetchErr := users.FirstRoleIn(models.RoleModerator, models.RoleSuperadmin, models.RoleCreator)
			if fetchErr != nil {
				return nil, createErr
			}
			role = existing
		}
	} else if err != nil {
		return nil, err
	}

	user = &models.User{
		Email:        automodEmail,
		Username:     automodUsername,
		PasswordHash: "!", // cannot log in
		IsVerified:   true,
		RoleID:       role.ID,
	}
	createErr := tx.Transaction(func(tx2 *gorm.DB) error {
		return repositories.NewPostgresUserRepository(tx2).CreateUser(user)
	})
	if createErr != nil {
		existing, fetchErr := users.GetUserByUsername(automodUsername)
		if fetchErr != nil {
			return nil, createErr
		}
		return existing, nil
	}
	return user, nil
}

// createSystemFlag opens a flag attributed to the automod account
func (e *Engine) createSystemFlag(tx *gorm.DB, storyID uuid.UUID, categories []string, fallbackReason string) error {
	automod, err := e.automodUser(tx)
	if err != nil {
		return err
	}

	reason := strings.Join(categories, "; ")
	if reason == "" {
		reason = fallbackReason
	}

	flag := &models.Flag{
		FlaggedByUserID: automod.ID,
		StoryID:         &storyID,
		Reason:          reason,
		Status:          models.FlagOpen,
	}
	return repositories.NewPostgresFlagRepository(tx).CreateFlag(flag)
}
