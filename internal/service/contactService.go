package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	repository "github.com/constructai/demobooking/internal/database/postgres"
	"github.com/constructai/demobooking/internal/entity"
)

type contactService struct {
	contactRepo repository.ContactRepository
}

// NewContactService создает новый экземпляр ContactService
func NewContactService(contactRepo repository.ContactRepository) ContactService {
	return &contactService{contactRepo: contactRepo}
}

// RegisterContact заводит контакт в справочнике. Повторная регистрация
// по тому же email возвращает существующую запись.
func (s *contactService) RegisterContact(ctx context.Context, req *RegisterContactRequest) (*entity.Contact, error) {
	existing, err := s.contactRepo.GetByEmail(ctx, req.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, entity.ErrContactNotFound) {
		return nil, passError("check existing contact", err)
	}

	contact := &entity.Contact{
		Email:       req.Email,
		ContactName: req.ContactName,
		CompanyName: req.CompanyName,
		Phone:       req.Phone,
	}
	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, passError("create contact", err)
	}

	logrus.WithFields(logrus.Fields{
		"contact_id": contact.ID,
		"company":    contact.CompanyName,
	}).Info("contact registered")

	return contact, nil
}

func (s *contactService) GetContactByEmail(ctx context.Context, email string) (*entity.Contact, error) {
	contact, err := s.contactRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, passError("get contact", err)
	}
	return contact, nil
}
