package services

import (
	"github.com/Dhallagan/indieout-marketplace-sub001/entity"
	"github.com/Dhallagan/indieout-marketplace-sub001/repository"

	"gorm.io/gorm"
)

// AddressService manages the buyer's address book. Checkout never reads it
// directly; the frontend picks an entry and submits it as the shipping
// address, which gets snapshotted onto the order.
type AddressService struct {
	Repo *repository.AddressRepository
}

func NewAddressService(repo *repository.AddressRepository) *AddressService {
	return &AddressService{Repo: repo}
}

func (s *AddressService) ListForUser(userID uint) ([]entity.Address, error) {
	return s.Repo.ListForUser(userID)
}

type AddressBookIn struct {
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	Phone      string `json:"phone"`
	Address1   string `json:"address1" binding:"required"`
	Address2   string `json:"address2"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	Country    string `json:"country" binding:"required"`
	IsDefault  bool   `json:"is_default"`
}

func (s *AddressService) Create(userID uint, in *AddressBookIn) (*entity.Address, error) {
	a := &entity.Address{
		UserID:     userID,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Phone:      in.Phone,
		Address1:   in.Address1,
		Address2:   in.Address2,
		City:       in.City,
		State:      in.State,
		PostalCode: in.PostalCode,
		Country:    in.Country,
		IsDefault:  in.IsDefault,
	}
	if err := s.Repo.Create(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AddressService) Delete(userID, addressID uint) error {
	n, err := s.Repo.DeleteForUser(userID, addressID)
	if err != nil {
		return err
	}
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
