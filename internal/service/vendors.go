package service

import (
	"context"
	"fmt"
	"strings"

	"procurement/models"
)

func normalizeVendor(v *models.Vendor) {
	v.Name = strings.TrimSpace(v.Name)
	v.ContactEmail = strings.TrimSpace(v.ContactEmail)
	v.ContactPerson = strings.TrimSpace(v.ContactPerson)
	v.Phone = strings.TrimSpace(v.Phone)
	v.Website = strings.TrimSpace(v.Website)
	v.Address = strings.TrimSpace(v.Address)
}

func (s *Service) CreateVendor(ctx context.Context, actor models.User, in models.Vendor) (*models.Vendor, error) {
	if err := requireRole(actor, "manage vendors", models.RoleProcurementManager); err != nil {
		return nil, err
	}
	normalizeVendor(&in)
	if err := s.validateStruct(in); err != nil {
		return nil, err
	}
	in.ID = ""
	in.CreatedBy = actor.ID
	if err := s.store.CreateVendor(ctx, &in); err != nil {
		return nil, fmt.Errorf("create vendor: %w", err)
	}
	return &in, nil
}

func (s *Service) UpdateVendor(ctx context.Context, actor models.User, id string, in models.Vendor) (*models.Vendor, error) {
	if err := requireRole(actor, "manage vendors", models.RoleProcurementManager); err != nil {
		return nil, err
	}
	v, err := s.store.GetVendor(ctx, id)
	if err != nil {
		return nil, lookup("vendor", err)
	}
	normalizeVendor(&in)
	if err := s.validateStruct(in); err != nil {
		return nil, err
	}
	v.Name = in.Name
	v.ContactEmail = in.ContactEmail
	v.ContactPerson = in.ContactPerson
	v.Phone = in.Phone
	v.Website = in.Website
	v.Address = in.Address
	if err := s.store.UpdateVendor(ctx, v); err != nil {
		return nil, fmt.Errorf("update vendor: %w", err)
	}
	return v, nil
}

func (s *Service) GetVendor(ctx context.Context, id string) (*models.Vendor, error) {
	v, err := s.store.GetVendor(ctx, id)
	if err != nil {
		return nil, lookup("vendor", err)
	}
	return v, nil
}

func (s *Service) ListVendors(ctx context.Context, limit, offset int) ([]models.Vendor, error) {
	return s.store.ListVendors(ctx, models.VendorFilter{Limit: limit, Offset: offset})
}
