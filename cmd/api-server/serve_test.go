package main

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"procurement/db/memstore"
	"procurement/internal/service"
	"procurement/models"
)

func TestSeedMemory(t *testing.T) {
	ctx := context.Background()
	log := logrus.New()
	log.SetOutput(io.Discard)
	store := memstore.New()
	svc := service.New(store, service.WithLogger(log))

	err := seedMemory(ctx, store, svc, map[string]string{
		"pm@example.com": models.RoleProcurementManager,
		"ev@example.com": models.RoleEvaluator,
	}, log)
	require.NoError(t, err)

	u, err := svc.UserByEmail(ctx, "pm@example.com")
	require.NoError(t, err)
	require.Equal(t, models.RoleProcurementManager, u.Role)

	templates, err := svc.ListTemplates(ctx, true)
	require.NoError(t, err)
	require.Len(t, templates, len(memstore.DefaultTemplates))
}

func TestSeedMemoryRejectsUnknownRole(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	store := memstore.New()
	svc := service.New(store, service.WithLogger(log))

	err := seedMemory(context.Background(), store, svc, map[string]string{"x@example.com": "admin"}, log)
	require.ErrorIs(t, err, service.ErrValidation)
}
