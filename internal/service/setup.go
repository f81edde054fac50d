package service

import (
	"fmt"

	"tg-moderator/internal/config"
	"tg-moderator/internal/logger"
	"tg-moderator/internal/models"
	"tg-moderator/internal/storage"
)

// Package-level service singletons wired by InitServices. Handlers reach
// them directly; tests construct services with fakes instead.
var (
	Verification *VerificationService
	Moderation   *ModerationService
	Roles        *RoleService
	Groups       *GroupService
	Accounts     *storage.AccountRepository

	groupManager = models.NewGroupManager()
	globalConfig *config.Config
)

// Initialize stores the configuration for the service layer.
func Initialize(cfg *config.Config) {
	globalConfig = cfg
}

// InitServices migrates the schema, builds the repositories and wires the
// services together. Must run after storage.Initialize.
func InitServices(provider IdentityProvider) error {
	db := storage.GetDB()
	if db == nil {
		return fmt.Errorf("database is not initialized")
	}

	Accounts = storage.NewAccountRepository(db)
	if err := Accounts.MigrateTable(); err != nil {
		return fmt.Errorf("migrating Account table: %w", err)
	}
	moderationRepo := storage.NewModerationRepository(db)
	if err := moderationRepo.MigrateTable(); err != nil {
		return fmt.Errorf("migrating ModerationAction table: %w", err)
	}
	auditRepo := storage.NewAuditRepository(db)
	if err := auditRepo.MigrateTable(); err != nil {
		return fmt.Errorf("migrating AuditLogEntry table: %w", err)
	}
	groupRepo := storage.NewGroupRepository(db)
	if err := groupRepo.MigrateTable(); err != nil {
		return fmt.Errorf("migrating Group table: %w", err)
	}

	if err := storage.InitializeGroups(groupManager); err != nil {
		logger.Warningf("Error loading groups from database: %v", err)
	}

	Moderation = NewModerationService(moderationRepo, auditRepo)
	Verification = NewVerificationService(Accounts, auditRepo, provider, Moderation, globalConfig.Verification.CodeLength)
	Roles = NewRoleService(Accounts, auditRepo)
	Groups = NewGroupService(groupRepo, groupManager)

	if err := bootstrapOwners(globalConfig.Bot.OwnerIDs); err != nil {
		return err
	}

	return nil
}

// bootstrapOwners grants the Owner role to the configured Telegram ids so a
// fresh deployment has someone able to assign roles at all.
func bootstrapOwners(ownerIDs []int64) error {
	for _, id := range ownerIDs {
		account, err := Accounts.GetOrCreate(id, "")
		if err != nil {
			return fmt.Errorf("bootstrapping owner %d: %w", id, err)
		}
		if account.Role == models.RoleOwner {
			continue
		}
		entry := &models.AuditLogEntry{
			ActorID:    0, // system bootstrap, no human actor
			ActionKind: models.AuditRoleAssigned,
			TargetID:   id,
			Details:    fmt.Sprintf("from=%s to=%s (config bootstrap)", account.Role, models.RoleOwner),
		}
		if err := Accounts.AssignRole(id, models.RoleOwner, entry); err != nil {
			return fmt.Errorf("bootstrapping owner %d: %w", id, err)
		}
		logger.Infof("bootstrapped owner role for account %d", id)
	}
	return nil
}
