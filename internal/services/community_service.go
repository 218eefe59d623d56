package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"recovery/internal/metrics"
	"recovery/internal/models/db_models"
	"recovery/internal/models/request_models"
	"recovery/internal/repositories"
	"recovery/pkg/utils"
)

const defaultSubscriberSource = "website"

type CommunityServiceInterface interface {
	Subscribe(ctx context.Context, request request_models.SubscribeRequest) (*SubscribeResult, error)
	Unsubscribe(ctx context.Context, email string) error
	SubmitContact(ctx context.Context, request request_models.ContactRequest) (*db_models.ContactMessage, error)
	ListContacts(ctx context.Context, ownerID uuid.UUID, query request_models.ListContactsQuery) ([]db_models.ContactMessage, int64, error)
	MarkContactRead(ctx context.Context, ownerID, messageID uuid.UUID) error
}

type SubscribeResult struct {
	Subscriber  *db_models.EmailSubscriber
	Reactivated bool
	// EmailSent is false when the welcome email could not be delivered; the
	// subscription itself still stands.
	EmailSent bool
}

// Message is what the visitor sees after subscribing.
func (r SubscribeResult) Message() string {
	if r.EmailSent {
		return "Thank you for joining our recovery community! Check your email for your free welcome package."
	}
	return "Thank you for joining our recovery community! We could not send your welcome package right now, please check back for an email soon."
}

type CommunityService struct {
	db             *gorm.DB
	subscriberRepo repositories.SubscriberRepository
	contactRepo    repositories.ContactRepository
	accountRepo    repositories.AccountRepository
	mail           IMailService
	log            *zap.Logger
	now            func() time.Time
}

func NewCommunityService(db *gorm.DB, subscriberRepo repositories.SubscriberRepository, contactRepo repositories.ContactRepository, accountRepo repositories.AccountRepository, mail IMailService, log *zap.Logger) *CommunityService {
	return &CommunityService{
		db:             db,
		subscriberRepo: subscriberRepo,
		contactRepo:    contactRepo,
		accountRepo:    accountRepo,
		mail:           mail,
		log:            log,
		now:            time.Now,
	}
}

// Subscribe adds email to the mailing list. An unsubscribed address is
// reactivated in place so its original signup row is kept.
func (s *CommunityService) Subscribe(ctx context.Context, request request_models.SubscribeRequest) (*SubscribeResult, error) {
	email := normalizeEmail(request.Email)
	if email == "" {
		return nil, utils.ErrInvalidInput
	}
	name := request.Name
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			name = nil
		} else {
			name = &trimmed
		}
	}
	source := strings.TrimSpace(request.Source)
	if source == "" {
		source = defaultSubscriberSource
	}

	result := &SubscribeResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.subscriberRepo.WithTx(tx)
		existing, err := repo.FindByEmail(ctx, email)
		if err != nil {
			return err
		}

		if existing == nil {
			sub := &db_models.EmailSubscriber{
				Email:          email,
				Name:           name,
				SubscribedDate: s.now().Unix(),
				IsActive:       true,
				Source:         source,
			}
			result.Subscriber = sub
			return repo.Create(ctx, sub)
		}
		if existing.IsActive {
			return utils.ErrAlreadySubscribed
		}

		existing.IsActive = true
		if name != nil {
			existing.Name = name
		}
		result.Subscriber = existing
		result.Reactivated = true
		return repo.Save(ctx, existing)
	})
	if err != nil {
		if errors.Is(err, utils.ErrAlreadySubscribed) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrAlreadySubscribed
		}
		s.log.Error("subscribe", zap.String("email", email), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	outcome := "created"
	if result.Reactivated {
		outcome = "reactivated"
	}
	metrics.Subscribers.WithLabelValues(outcome).Inc()

	if err := s.mail.SendWelcomeEmail(ctx, email, name); err != nil {
		s.log.Warn("welcome email failed", zap.String("email", email), zap.Error(err))
	} else {
		result.EmailSent = true
	}
	return result, nil
}

func (s *CommunityService) Unsubscribe(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	existing, err := s.subscriberRepo.FindByEmail(ctx, email)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if existing == nil || !existing.IsActive {
		return utils.ErrNotSubscribed
	}

	existing.IsActive = false
	if err := s.subscriberRepo.Save(ctx, existing); err != nil {
		return utils.ErrDatabaseError
	}
	metrics.Subscribers.WithLabelValues("unsubscribed").Inc()
	return nil
}

// SubmitContact stores a contact form message. Messages are append-only.
func (s *CommunityService) SubmitContact(ctx context.Context, request request_models.ContactRequest) (*db_models.ContactMessage, error) {
	msg := &db_models.ContactMessage{
		Name:          strings.TrimSpace(request.Name),
		Email:         normalizeEmail(request.Email),
		Subject:       strings.TrimSpace(request.Subject),
		Message:       strings.TrimSpace(request.Message),
		SubmittedDate: s.now().Unix(),
	}
	if msg.Name == "" || msg.Email == "" || msg.Subject == "" || msg.Message == "" {
		return nil, utils.ErrInvalidInput
	}

	if err := s.contactRepo.Create(ctx, msg); err != nil {
		s.log.Error("submit contact", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	return msg, nil
}

func requireOwner(ctx context.Context, repo repositories.AccountRepository, accountID uuid.UUID) error {
	account, err := repo.FindById(ctx, accountID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if account == nil {
		return utils.ErrAccountNotFound
	}
	if !account.IsOwner() {
		return utils.ErrForbidden
	}
	return nil
}

func (s *CommunityService) ListContacts(ctx context.Context, ownerID uuid.UUID, query request_models.ListContactsQuery) ([]db_models.ContactMessage, int64, error) {
	if err := requireOwner(ctx, s.accountRepo, ownerID); err != nil {
		return nil, 0, err
	}
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PageSize < 1 || query.PageSize > 100 {
		query.PageSize = 20
	}

	msgs, err := s.contactRepo.List(ctx, query.Page, query.PageSize, query.UnreadOnly)
	if err != nil {
		return nil, 0, utils.ErrDatabaseError
	}
	total, err := s.contactRepo.Count(ctx, query.UnreadOnly)
	if err != nil {
		return nil, 0, utils.ErrDatabaseError
	}
	return msgs, total, nil
}

func (s *CommunityService) MarkContactRead(ctx context.Context, ownerID, messageID uuid.UUID) error {
	if err := requireOwner(ctx, s.accountRepo, ownerID); err != nil {
		return err
	}
	found, err := s.contactRepo.MarkRead(ctx, messageID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if !found {
		return utils.ErrNotFound
	}
	return nil
}
